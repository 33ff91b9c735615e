package service

import (
	"context"
	"fmt"

	"github.com/foliocms/folio/internal/crypto"
	"github.com/foliocms/folio/internal/logger"
	"github.com/foliocms/folio/internal/store"
	"github.com/foliocms/folio/internal/utils"
	"github.com/foliocms/folio/models"
)

// backupCodeCount is the number of recovery codes issued per enrollment.
const backupCodeCount = 10

// secretKind tags which storage form an admin's TOTP secret was found in.
type secretKind int

const (
	secretAbsent secretKind = iota
	secretEncrypted
	secretLegacy
)

type twoFactorService struct {
	admins      store.AdminRepository
	backupCodes store.BackupCodeRepository
	hasher      crypto.PasswordHasher
	totp        crypto.TOTPEngine
	audit       *auditor
	logger      *logger.Logger
}

func newTwoFactorService(
	repos *store.Repositories,
	hasher crypto.PasswordHasher,
	totp crypto.TOTPEngine,
	audit *auditor,
	log *logger.Logger,
) *twoFactorService {
	return &twoFactorService{
		admins:      repos.Admins,
		backupCodes: repos.BackupCodes,
		hasher:      hasher,
		totp:        totp,
		audit:       audit,
		logger:      log,
	}
}

// BeginSetup generates fresh enrollment material without persisting
// anything. The raw secret is revealed only when the caller re-verifies
// the account password; the provisioning URI is always returned.
func (s *twoFactorService) BeginSetup(ctx context.Context, admin models.Admin, password string) (TwoFactorSetup, error) {
	enrollment, err := s.totp.GenerateEnrollment(admin.Email)
	if err != nil {
		return TwoFactorSetup{}, fmt.Errorf("generating enrollment: %w", err)
	}

	setup := TwoFactorSetup{
		EncryptedSecret: enrollment.EncryptedSecret,
		ProvisioningURI: enrollment.ProvisioningURI,
	}

	if password != "" && s.hasher.Verify(password, admin.PasswordHash) {
		setup.RawSecret = enrollment.RawSecret
	}

	return setup, nil
}

// ConfirmSetup validates code against the pending encrypted secret,
// persists the secret, and issues a fresh batch of backup codes. The
// plaintext codes are returned exactly once; only hashes are stored.
func (s *twoFactorService) ConfirmSetup(ctx context.Context, admin models.Admin, encryptedSecret, code string, meta models.ClientMeta) ([]string, error) {
	if encryptedSecret == "" || code == "" {
		return nil, fmt.Errorf("%w: encrypted secret and code are required", ErrInvalidDataProvided)
	}

	if !s.totp.VerifyCode(encryptedSecret, code) {
		return nil, ErrInvalidTwoFactorCode
	}

	if err := s.admins.EnableTwoFactor(ctx, admin.AdminID, encryptedSecret); err != nil {
		return nil, err
	}

	plaintext, err := s.totp.GenerateBackupCodes(backupCodeCount)
	if err != nil {
		return nil, fmt.Errorf("generating backup codes: %w", err)
	}

	codes := make([]models.BackupCode, 0, len(plaintext))
	for _, pc := range plaintext {
		hash, err := s.hasher.Hash(pc)
		if err != nil {
			return nil, fmt.Errorf("hashing backup code: %w", err)
		}
		codes = append(codes, models.BackupCode{
			BackupCodeID: utils.NewUUID(),
			AdminID:      admin.AdminID,
			CodeHash:     hash,
		})
	}

	if err := s.backupCodes.ReplaceCodes(ctx, admin.AdminID, codes); err != nil {
		return nil, err
	}

	s.audit.record(ctx, admin.AdminID, models.AuditActionTwoFactorOn, meta)

	return plaintext, nil
}

// Disable turns off two-factor authentication after password
// re-verification. Backup codes are deleted so none survive a later
// re-enrollment.
func (s *twoFactorService) Disable(ctx context.Context, admin models.Admin, password string, meta models.ClientMeta) error {
	if !admin.TOTPEnabled {
		return ErrTwoFactorNotEnabled
	}

	if !s.hasher.Verify(password, admin.PasswordHash) {
		return ErrInvalidCredentials
	}

	if err := s.admins.DisableTwoFactor(ctx, admin.AdminID); err != nil {
		return err
	}

	if err := s.backupCodes.DeleteCodesByAdmin(ctx, admin.AdminID); err != nil {
		return err
	}

	s.audit.record(ctx, admin.AdminID, models.AuditActionTwoFactorOff, meta)

	return nil
}

// VerifySecondFactor validates either a TOTP code or a backup code. All
// failure modes (wrong code, unknown code, already-consumed code, missing
// secret) collapse into ErrInvalidTwoFactorCode.
func (s *twoFactorService) VerifySecondFactor(ctx context.Context, admin models.Admin, totpCode, backupCode string) error {
	switch {
	case totpCode != "":
		return s.verifyTOTP(ctx, admin, totpCode)
	case backupCode != "":
		return s.verifyBackupCode(ctx, admin, backupCode)
	default:
		return ErrInvalidTwoFactorCode
	}
}

func (s *twoFactorService) verifyTOTP(ctx context.Context, admin models.Admin, code string) error {
	secret, kind := resolveSecret(admin)

	switch kind {
	case secretEncrypted:
		if !s.totp.VerifyCode(secret, code) {
			return ErrInvalidTwoFactorCode
		}
		return nil

	case secretLegacy:
		s.logger.Warn().
			Int64("admin_id", admin.AdminID).
			Msg("verifying against legacy plaintext secret")

		if !s.totp.VerifyRawCode(secret, code) {
			return ErrInvalidTwoFactorCode
		}

		s.migrateLegacySecret(ctx, admin.AdminID, secret)
		return nil

	default:
		// enrolled flag set but no secret stored; treat as a bad code
		// rather than leaking account state
		s.logger.Error().
			Int64("admin_id", admin.AdminID).
			Msg("two-factor enabled but no secret stored")
		return ErrInvalidTwoFactorCode
	}
}

// migrateLegacySecret re-encrypts a plaintext secret the first time it
// verifies successfully. Best-effort: the login proceeds either way and
// the next legacy verify retries the migration.
func (s *twoFactorService) migrateLegacySecret(ctx context.Context, adminID int64, rawSecret string) {
	encrypted, err := s.totp.EncryptSecret(rawSecret)
	if err != nil {
		s.logger.Error().Err(err).
			Int64("admin_id", adminID).
			Msg("failed to encrypt legacy secret for migration")
		return
	}

	if err := s.admins.MigrateLegacySecret(ctx, adminID, encrypted); err != nil {
		s.logger.Error().Err(err).
			Int64("admin_id", adminID).
			Msg("failed to migrate legacy secret")
		return
	}

	s.logger.Info().
		Int64("admin_id", adminID).
		Msg("migrated legacy plaintext secret to encrypted storage")
}

func (s *twoFactorService) verifyBackupCode(ctx context.Context, admin models.Admin, code string) error {
	unused, err := s.backupCodes.ListUnusedCodes(ctx, admin.AdminID)
	if err != nil {
		return err
	}

	for _, candidate := range unused {
		if !s.hasher.Verify(code, candidate.CodeHash) {
			continue
		}

		consumed, err := s.backupCodes.ConsumeCode(ctx, candidate.BackupCodeID)
		if err != nil {
			return err
		}
		if !consumed {
			// lost the race to a concurrent attempt with the same code
			return ErrInvalidTwoFactorCode
		}

		s.logger.Info().
			Int64("admin_id", admin.AdminID).
			Int("remaining", len(unused)-1).
			Msg("backup code consumed")

		return nil
	}

	return ErrInvalidTwoFactorCode
}

// resolveSecret picks the stored secret form. The columns are mutually
// exclusive in practice; when both are somehow set the encrypted form
// wins.
func resolveSecret(admin models.Admin) (string, secretKind) {
	if admin.TOTPSecretEncrypted != nil && *admin.TOTPSecretEncrypted != "" {
		return *admin.TOTPSecretEncrypted, secretEncrypted
	}
	if admin.TOTPSecretLegacy != nil && *admin.TOTPSecretLegacy != "" {
		return *admin.TOTPSecretLegacy, secretLegacy
	}
	return "", secretAbsent
}

package store

import "github.com/foliocms/folio/models"

func adminFixture(email, hash string) models.Admin {
	return models.Admin{
		Email:        email,
		PasswordHash: hash,
	}
}

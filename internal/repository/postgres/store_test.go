package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lalith-99/propman/internal/repository"
	"github.com/stretchr/testify/assert"
)

func TestTranslateConstraintViolations(t *testing.T) {
	cases := []struct {
		constraint string
		code       string
		want       error
	}{
		{"users_normalized_username_key", codeUniqueViolation, repository.ErrDuplicateUsername},
		{"users_normalized_email_key", codeUniqueViolation, repository.ErrDuplicateEmail},
		{"properties_normalized_address_key", codeUniqueViolation, repository.ErrDuplicateAddress},
		{"jobs_job_number_key", codeUniqueViolation, repository.ErrDuplicateJobNumber},
		{"property_managers_property_key", codeUniqueViolation, repository.ErrPropertyManaged},
		{"jobs_property_id_fkey", codeForeignKeyViolation, repository.ErrForeignKey},
	}
	for _, tc := range cases {
		err := translate("op", &pgconn.PgError{Code: tc.code, ConstraintName: tc.constraint})
		assert.ErrorIs(t, err, tc.want, tc.constraint)
	}
}

func TestTranslatePassesThroughOtherErrors(t *testing.T) {
	base := errors.New("connection reset")
	err := translate("insert job", base)
	assert.ErrorIs(t, err, base)
	assert.EqualError(t, err, "insert job: connection reset")

	err = translate("insert job", &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "something_else"})
	assert.NotErrorIs(t, err, repository.ErrDuplicateJobNumber)
}

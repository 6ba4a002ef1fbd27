package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The repository layer maps violations by constraint name, so the names in
// the DDL must not drift.
func TestSchemaDeclaresNamedConstraints(t *testing.T) {
	schema := Schema()
	for _, name := range []string{
		"users_normalized_username_key",
		"users_normalized_email_key",
		"jobs_job_number_key",
		"property_managers_property_key",
		"properties_normalized_address_key",
		"job_types_name_key",
		"service_provider_job_types_pair_key",
	} {
		assert.Contains(t, schema, "CONSTRAINT "+name+" UNIQUE", name)
	}
}

func TestSchemaIsIdempotent(t *testing.T) {
	for _, stmt := range strings.Split(Schema(), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		assert.Regexp(t, `^CREATE (TABLE|INDEX) IF NOT EXISTS`, stmt)
	}
}

func TestDefaultJobTypesAreUnique(t *testing.T) {
	seen := make(map[string]bool, len(DefaultJobTypes))
	for _, name := range DefaultJobTypes {
		assert.False(t, seen[name], "duplicate job type %q", name)
		seen[name] = true
	}
	assert.Len(t, DefaultJobTypes, 10)
}

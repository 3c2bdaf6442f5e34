package csvimport

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientImportRules() []FieldRule {
	return []FieldRule{
		Field("name").Required().String().MaxLength(200).Unique().Build(),
		Field("website").String().MaxLength(500).Build(),
		Field("industry").String().MaxLength(50).Build(),
		Field("monthly_budget").Decimal().Build(),
	}
}

func newClientSession() *ImportSession {
	return NewImportSession(uuid.New(), uuid.New(), EntityClients, "clients.csv", 1024)
}

func TestImportProcessor_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts a clean client file", func(t *testing.T) {
		csv := "name,website,industry,monthly_budget\n" +
			"Acme,https://acme.example,retail,2500\n" +
			"Bolt,https://bolt.example,logistics,1800.50\n"

		session := newClientSession()
		result, err := NewImportProcessor().Validate(ctx, session, strings.NewReader(csv), clientImportRules())
		require.NoError(t, err)

		assert.Equal(t, 2, result.TotalRows)
		assert.Equal(t, 2, result.ValidRows)
		assert.Equal(t, 0, result.ErrorRows)
		assert.True(t, result.IsValid())
		assert.Equal(t, StateValidated, session.State)
		assert.Len(t, result.Preview, 2)
	})

	t.Run("reports missing required fields with the row number", func(t *testing.T) {
		csv := "name,website,industry,monthly_budget\n" +
			",https://nameless.example,retail,100\n" +
			"Bolt,https://bolt.example,logistics,200\n"

		session := newClientSession()
		result, err := NewImportProcessor().Validate(ctx, session, strings.NewReader(csv), clientImportRules())
		require.NoError(t, err)

		assert.Equal(t, 1, result.ErrorRows)
		assert.Equal(t, 1, result.ValidRows)
		assert.False(t, result.IsValid())
		assert.Equal(t, StateFailed, session.State)

		require.NotEmpty(t, result.Errors)
		assert.Equal(t, 2, result.Errors[0].Row)
		assert.Equal(t, "name", result.Errors[0].Column)
		assert.Equal(t, ErrCodeImportRequiredField, result.Errors[0].Code)
	})

	t.Run("rejects a non-numeric budget", func(t *testing.T) {
		csv := "name,monthly_budget\nAcme,lots\n"

		session := newClientSession()
		result, err := NewImportProcessor().Validate(ctx, session, strings.NewReader(csv), clientImportRules())
		require.NoError(t, err)

		assert.Equal(t, 1, result.ErrorRows)
		require.NotEmpty(t, result.Errors)
		assert.Equal(t, "monthly_budget", result.Errors[0].Column)
	})

	t.Run("flags duplicate names within the file", func(t *testing.T) {
		csv := "name,website\nAcme,https://acme.example\nAcme,https://other.example\n"

		session := newClientSession()
		processor := NewImportProcessor(WithUniqueLookup(func(_, _, _ string) (bool, error) {
			return false, nil
		}))
		result, err := processor.Validate(ctx, session, strings.NewReader(csv), clientImportRules())
		require.NoError(t, err)

		assert.Equal(t, 1, result.ValidRows)
		assert.Equal(t, 1, result.ErrorRows)
	})

	t.Run("flags names already taken in the portfolio", func(t *testing.T) {
		csv := "name,website\nAcme,https://acme.example\n"

		session := newClientSession()
		processor := NewImportProcessor(WithUniqueLookup(func(entityType, field, value string) (bool, error) {
			return entityType == string(EntityClients) && field == "name" && value == "Acme", nil
		}))
		result, err := processor.Validate(ctx, session, strings.NewReader(csv), clientImportRules())
		require.NoError(t, err)

		assert.Equal(t, 1, result.ErrorRows)
	})

	t.Run("skips blank rows", func(t *testing.T) {
		csv := "name,website\nAcme,https://acme.example\n,,\n,,\nBolt,https://bolt.example\n"

		session := newClientSession()
		result, err := NewImportProcessor().Validate(ctx, session, strings.NewReader(csv), clientImportRules())
		require.NoError(t, err)

		assert.Equal(t, 2, result.TotalRows)
		assert.Equal(t, 2, result.ValidRows)
	})

	t.Run("stops at the row cap", func(t *testing.T) {
		var sb strings.Builder
		sb.WriteString("name,website\n")
		for i := 0; i < 5; i++ {
			sb.WriteString("Client ")
			sb.WriteByte(byte('A' + i))
			sb.WriteString(",https://c.example\n")
		}

		session := newClientSession()
		processor := NewImportProcessor(WithMaxRows(3))
		result, err := processor.Validate(ctx, session, strings.NewReader(sb.String()), clientImportRules())
		require.NoError(t, err)

		assert.LessOrEqual(t, result.ValidRows, 3)
		assert.NotEmpty(t, result.Errors)
	})

	t.Run("a cancelled context aborts the run", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		session := newClientSession()
		_, err := NewImportProcessor().Validate(cancelled, session, strings.NewReader("name\nAcme\n"), clientImportRules())
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, StateCancelled, session.State)
	})

	t.Run("limits the preview to the configured rows", func(t *testing.T) {
		csv := "name\nA\nB\nC\nD\n"

		session := newClientSession()
		processor := NewImportProcessor(WithPreviewRows(2))
		result, err := processor.Validate(ctx, session, strings.NewReader(csv), clientImportRules())
		require.NoError(t, err)

		assert.Len(t, result.Preview, 2)
		assert.Equal(t, 4, result.ValidRows)
	})
}

func TestFieldValidator_ValidateRow(t *testing.T) {
	header := []string{"name", "website", "monthly_budget"}

	makeRow := func(values ...string) *Row {
		data := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(values) {
				data[h] = values[i]
			}
		}
		return &Row{LineNumber: 2, Data: data}
	}

	t.Run("valid row passes", func(t *testing.T) {
		v := NewFieldValidator(clientImportRules(), 10)
		assert.True(t, v.ValidateRow(makeRow("Acme", "https://acme.example", "1000")))
		assert.False(t, v.Errors().HasErrors())
	})

	t.Run("overlong name is rejected", func(t *testing.T) {
		v := NewFieldValidator(clientImportRules(), 10)
		assert.False(t, v.ValidateRow(makeRow(strings.Repeat("x", 201), "", "")))
		assert.Equal(t, 1, v.Errors().Count())
	})

	t.Run("optional empty fields are fine", func(t *testing.T) {
		v := NewFieldValidator(clientImportRules(), 10)
		assert.True(t, v.ValidateRow(makeRow("Acme", "", "")))
	})
}

package csvimport

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCSVParser(t *testing.T) {
	t.Run("Valid UTF-8 CSV", func(t *testing.T) {
		csv := "name,age,city\nAlice,30,New York\nBob,25,Boston"
		parser, err := NewCSVParser(strings.NewReader(csv))

		require.NoError(t, err)
		require.NotNil(t, parser)
	})

	t.Run("UTF-8 BOM is stripped", func(t *testing.T) {
		// UTF-8 BOM: 0xEF, 0xBB, 0xBF
		csv := "\xEF\xBB\xBFname,age\nAlice,30"
		parser, err := NewCSVParser(strings.NewReader(csv))

		require.NoError(t, err)
		require.NotNil(t, parser)

		err = parser.ParseHeader()
		require.NoError(t, err)

		// Header should not include BOM
		headers := parser.Headers()
		assert.Equal(t, "name", headers[0])
	})

	t.Run("UTF-16LE with BOM is decoded", func(t *testing.T) {
		text := "name,city\nRené,Zürich"
		buf := []byte{0xFF, 0xFE}
		for _, r := range text {
			buf = append(buf, byte(r), byte(r>>8))
		}

		parser, err := NewCSVParser(bytes.NewReader(buf))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "René", row.Get("name"))
		assert.Equal(t, "Zürich", row.Get("city"))
	})

	t.Run("Windows-1252 fallback", func(t *testing.T) {
		// "René" with 0xE9, invalid as UTF-8
		data := []byte("name,city\nRen\xe9,Madrid")

		parser, err := NewCSVParser(bytes.NewReader(data))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "René", row.Get("name"))
	})

	t.Run("Empty file returns error", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader(""))

		assert.Error(t, err)
		assert.Nil(t, parser)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("Custom delimiter", func(t *testing.T) {
		csv := "name;age;city\nAlice;30;NYC"
		parser, err := NewCSVParser(strings.NewReader(csv), WithDelimiter(';'))

		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		headers := parser.Headers()
		assert.Equal(t, []string{"name", "age", "city"}, headers)
	})
}

func TestParseHeader(t *testing.T) {
	t.Run("Valid header", func(t *testing.T) {
		csv := "name,website,industry\nAcme,https://acme.example,retail"
		parser, _ := NewCSVParser(strings.NewReader(csv))

		err := parser.ParseHeader()

		require.NoError(t, err)
		assert.Equal(t, []string{"name", "website", "industry"}, parser.Headers())
		assert.Equal(t, map[string]int{"name": 0, "website": 1, "industry": 2}, parser.HeaderMap())
	})

	t.Run("Header with spaces trimmed", func(t *testing.T) {
		csv := "  name  ,  website  ,  industry  \nAcme,https://acme.example,retail"
		parser, _ := NewCSVParser(strings.NewReader(csv))

		err := parser.ParseHeader()

		require.NoError(t, err)
		assert.Equal(t, []string{"name", "website", "industry"}, parser.Headers())
	})

	t.Run("HasHeader check", func(t *testing.T) {
		csv := "name,website,industry\nAcme,https://acme.example,retail"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		assert.True(t, parser.HasHeader("name"))
		assert.True(t, parser.HasHeader("website"))
		assert.False(t, parser.HasHeader("description"))
	})

	t.Run("ValidateHeaders finds missing", func(t *testing.T) {
		csv := "name,website\nAcme,https://acme.example"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		missing := parser.ValidateHeaders([]string{"name", "website", "industry", "company_size"})
		assert.ElementsMatch(t, []string{"industry", "company_size"}, missing)
	})
}

func TestReadRow(t *testing.T) {
	t.Run("Read single row", func(t *testing.T) {
		csv := "name,website,industry\nAcme,https://acme.example,retail"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		row, err := parser.ReadRow()

		require.NoError(t, err)
		assert.Equal(t, 2, row.LineNumber)
		assert.Equal(t, "Acme", row.Get("name"))
		assert.Equal(t, "https://acme.example", row.Get("website"))
		assert.Equal(t, "retail", row.Get("industry"))
	})

	t.Run("Row with missing columns", func(t *testing.T) {
		csv := "name,website,industry,company_size\nAcme,https://acme.example"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		row, err := parser.ReadRow()

		require.NoError(t, err)
		assert.Equal(t, "Acme", row.Get("name"))
		assert.Equal(t, "https://acme.example", row.Get("website"))
		assert.Equal(t, "", row.Get("industry"))
		assert.Equal(t, "", row.Get("company_size"))
	})

	t.Run("GetOrDefault", func(t *testing.T) {
		csv := "name,website,industry\nAcme,https://acme.example,"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		row, _ := parser.ReadRow()

		assert.Equal(t, "Acme", row.GetOrDefault("name", "default"))
		assert.Equal(t, "N/A", row.GetOrDefault("industry", "N/A"))
		assert.Equal(t, "none", row.GetOrDefault("missing", "none"))
	})

	t.Run("IsEmpty row", func(t *testing.T) {
		csv := "name,website\n,,\nAcme,https://acme.example"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		row1, _ := parser.ReadRow()
		assert.True(t, row1.IsEmpty())

		row2, _ := parser.ReadRow()
		assert.False(t, row2.IsEmpty())
	})

	t.Run("EOF after last row", func(t *testing.T) {
		csv := "name,website\nAcme,https://acme.example"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		_, err := parser.ReadRow()
		require.NoError(t, err)

		_, err = parser.ReadRow()
		assert.Equal(t, io.EOF, err)
	})
}

func TestReadAllRows(t *testing.T) {
	t.Run("Read all rows", func(t *testing.T) {
		csv := "name,website\nAcme,https://acme.example\nBolt,https://bolt.example\nCore,https://core.example"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		rows, err := parser.ReadAllRows()

		require.NoError(t, err)
		assert.Len(t, rows, 3)
		assert.Equal(t, "Acme", rows[0].Get("name"))
		assert.Equal(t, "Bolt", rows[1].Get("name"))
		assert.Equal(t, "Core", rows[2].Get("name"))
	})

	t.Run("Skip empty rows", func(t *testing.T) {
		csv := "name,website\nAcme,https://acme.example\n,,\n,,\nBolt,https://bolt.example"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		rows, err := parser.ReadAllRows()

		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("TotalRows count", func(t *testing.T) {
		csv := "name,website\nAcme,https://acme.example\nBolt,https://bolt.example\nCore,https://core.example"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		parser.ReadAllRows()

		assert.Equal(t, 3, parser.TotalRows())
	})
}

func TestParseFromBytes(t *testing.T) {
	t.Run("Parse from byte slice", func(t *testing.T) {
		data := []byte("name,website\nAcme,https://acme.example")
		parser, err := ParseFromBytes(data)

		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		row, _ := parser.ReadRow()
		assert.Equal(t, "Acme", row.Get("name"))
	})
}

func TestQuotedFields(t *testing.T) {
	t.Run("Fields with quotes", func(t *testing.T) {
		csv := `name,website,description
"Acme","https://acme.example","A retail client"
"Bolt","https://bolt.example","Contains, comma"
"Client ""Quoted""","https://q.example","With ""quotes"""
`
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		row1, _ := parser.ReadRow()
		assert.Equal(t, "Acme", row1.Get("name"))
		assert.Equal(t, "A retail client", row1.Get("description"))

		row2, _ := parser.ReadRow()
		assert.Equal(t, "Contains, comma", row2.Get("description"))

		row3, _ := parser.ReadRow()
		assert.Equal(t, `Client "Quoted"`, row3.Get("name"))
		assert.Equal(t, `With "quotes"`, row3.Get("description"))
	})
}

func TestMultilineFields(t *testing.T) {
	t.Run("Fields with newlines", func(t *testing.T) {
		csv := "name,website,description\nAcme,https://acme.example,\"Line 1\nLine 2\nLine 3\""
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		row, _ := parser.ReadRow()
		assert.Equal(t, "Line 1\nLine 2\nLine 3", row.Get("description"))
	})
}

func TestGetColumnIndex(t *testing.T) {
	csv := "name,website,industry\nAcme,https://acme.example,retail"
	parser, _ := NewCSVParser(strings.NewReader(csv))
	parser.ParseHeader()

	idx, ok := parser.GetColumnIndex("website")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = parser.GetColumnIndex("missing")
	assert.False(t, ok)
}

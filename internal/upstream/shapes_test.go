package upstream

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractListNormalizesAllKnownShapes(t *testing.T) {
	records := `[{"id":"e1"},{"id":"e2"}]`

	shapes := map[string]string{
		"bare array":       records,
		"data wrapper":     fmt.Sprintf(`{"data":%s}`, records),
		"exchanges field":  fmt.Sprintf(`{"exchanges":%s}`, records),
		"results envelope": fmt.Sprintf(`{"results":%s,"total":2}`, records),
	}

	for name, body := range shapes {
		t.Run(name, func(t *testing.T) {
			items, ok := ExtractList([]byte(body), ExchangeListFields...)
			require.True(t, ok)
			require.Len(t, items, 2)
			assert.JSONEq(t, `{"id":"e1"}`, string(items[0]))
			assert.JSONEq(t, `{"id":"e2"}`, string(items[1]))
		})
	}
}

func TestExtractListFieldOrderMatters(t *testing.T) {
	// data имеет приоритет над results, если бэкенд прислал оба
	body := `{"data":[{"id":"primary"}],"results":[{"id":"stale"}]}`

	items, ok := ExtractList([]byte(body), ExchangeListFields...)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.JSONEq(t, `{"id":"primary"}`, string(items[0]))
}

func TestExtractListUnrecognizedShape(t *testing.T) {
	cases := []string{
		`{"payload":[{"id":"e1"}]}`,
		`"just a string"`,
		`42`,
		``,
	}

	for _, body := range cases {
		items, ok := ExtractList([]byte(body), ExchangeListFields...)
		assert.False(t, ok, "body: %s", body)
		assert.Empty(t, items)
	}
}

func TestExtractObject(t *testing.T) {
	wrapped, ok := ExtractObject([]byte(`{"data":{"id":"e1"}}`))
	require.True(t, ok)
	assert.JSONEq(t, `{"id":"e1"}`, string(wrapped))

	bare, ok := ExtractObject([]byte(`{"id":"e1"}`))
	require.True(t, ok)
	assert.JSONEq(t, `{"id":"e1"}`, string(bare))

	_, ok = ExtractObject([]byte(`[{"id":"e1"}]`))
	assert.False(t, ok)
}

func TestExtractStatusCheckShapes(t *testing.T) {
	cases := map[string]struct {
		body string
		want int
	}{
		"bare array":      {`[{"id":"e1"}]`, 1},
		"data.requests":   {`{"data":{"requests":[{"id":"e1"},{"id":"e2"}]}}`, 2},
		"requests":        {`{"requests":[{"id":"e1"}]}`, 1},
		"legacy exchange": {`{"exchange":{"id":"e1"}}`, 1},
		"empty requests":  {`{"requests":[]}`, 0},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			items, ok := ExtractStatusCheck([]byte(tc.body))
			require.True(t, ok)
			assert.Len(t, items, tc.want)
		})
	}
}

func TestExtractStatusCheckLegacySingleRecord(t *testing.T) {
	items, ok := ExtractStatusCheck([]byte(`{"exchange":{"id":"e9","status":"pending"}}`))
	require.True(t, ok)
	require.Len(t, items, 1)

	var record struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(items[0], &record))
	assert.Equal(t, "e9", record.ID)
	assert.Equal(t, "pending", record.Status)
}

func TestExtractStatusCheckUnrecognized(t *testing.T) {
	_, ok := ExtractStatusCheck([]byte(`{"something":"else"}`))
	assert.False(t, ok)
}

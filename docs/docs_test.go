package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

// the document is maintained by hand, so it must still render to valid swagger JSON
func TestSwaggerDocRenders(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Swagger  string         `json:"swagger"`
		BasePath string         `json:"basePath"`
		Info     map[string]any `json:"info"`
		Paths    map[string]any `json:"paths"`
		Security map[string]any `json:"securityDefinitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc), raw)

	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "/api/v1", doc.BasePath)
	assert.Equal(t, "Bloomhouse Admin Console API", doc.Info["title"])
	assert.NotEmpty(t, doc.Paths)
	assert.Contains(t, doc.Security, "BearerAuth")
}

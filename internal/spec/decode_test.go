package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDecode_Listing(t *testing.T) {
	listing := decodeFixture(t, petListing)

	assert.Equal(t, "http://h", listing.BasePath)
	require.Len(t, listing.APIs, 1)
	decl := listing.APIs[0].APIDeclaration
	require.NotNil(t, decl)
	assert.Equal(t, "http://h/api", decl.BasePath)
	require.Len(t, decl.APIs, 3)

	add := decl.APIs[0].Operations[1]
	assert.Equal(t, "addPet", add.Nickname)
	assert.Equal(t, "POST", add.HTTPMethod)
	require.Len(t, add.Parameters, 1)
	assert.Equal(t, ParamBody, add.Parameters[0].ParamType)
	assert.True(t, add.Parameters[0].Required)
	require.Len(t, add.ErrorResponses, 2)
	assert.Equal(t, 409, add.ErrorResponses[1].Code)

	assert.Equal(t, "websocket", decl.APIs[2].Operations[0].Upgrade)
}

func TestDecode_ModelsKeepDocumentOrder(t *testing.T) {
	doc := `{"basePath": "http://h", "apis": [], "models": {
		"Zebra": {"properties": {"z": {"type": "string"}, "a": {"type": "int"}}},
		"Apple": {"id": "Apple", "properties": {}},
		"Mango": {"id": "MangoModel"}
	}}`
	decl, err := DecodeAPIDeclaration([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, []string{"Zebra", "Apple", "Mango"}, decl.Models.Keys())
	zebra, ok := decl.Models.Get("Zebra")
	require.True(t, ok)
	assert.Equal(t, "Zebra", zebra.ID, "id falls back to the mapping key")
	assert.Equal(t, []string{"z", "a"}, zebra.Properties.Keys())
	z, _ := zebra.Properties.Get("z")
	assert.Equal(t, "z", z.Name, "name falls back to the mapping key")

	mango, _ := decl.Models.Get("Mango")
	assert.Equal(t, "MangoModel", mango.ID)
	assert.Equal(t, 0, mango.Properties.Len())
}

func TestDecode_YAML(t *testing.T) {
	doc := `
apis:
  - path: /pets
    api_declaration:
      basePath: http://h
      apis:
        - path: /pets/{id}
          operations:
            - nickname: getPet
              httpMethod: GET
              parameters:
                - {name: id, paramType: path, required: true}
`
	listing := decodeFixture(t, doc)
	op := listing.APIs[0].APIDeclaration.APIs[0].Operations[0]
	assert.Equal(t, "getPet", op.Nickname)
	assert.Equal(t, ParamPath, op.Parameters[0].ParamType)
}

func TestDecode_Swagger12Keys(t *testing.T) {
	doc := `{"swaggerVersion": "1.2", "basePath": "http://h", "apis": [{
		"path": "/pets/{id}",
		"operations": [{
			"method": "DELETE",
			"nickname": "deletePet",
			"parameters": [{"name": "id", "paramType": "path", "type": "string", "required": true}],
			"responseMessages": [{"code": 404, "message": "Not found"}]
		}, {
			"method": "PUT",
			"httpMethod": "PATCH",
			"nickname": "updatePet"
		}]
	}]}`
	decl, err := DecodeAPIDeclaration([]byte(doc))
	require.NoError(t, err)

	del := decl.APIs[0].Operations[0]
	assert.Equal(t, "DELETE", del.HTTPMethod)
	assert.Equal(t, "string", del.Parameters[0].DataType)
	require.Len(t, del.ErrorResponses, 1)
	assert.Equal(t, "Not found", del.ErrorResponses[0].Reason)

	upd := decl.APIs[0].Operations[1]
	assert.Equal(t, "PATCH", upd.HTTPMethod, "an existing 1.1 key wins")
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"html", "<html><body>not found</body></html>"},
		{"array", `[1, 2]`},
		{"broken", `{"apis": [`},
		{"models not a mapping", `{"apis": [{"path": "/p", "api_declaration": {"basePath": "x", "apis": [], "models": [1]}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParse)
			assert.ErrorIs(t, err, ErrLoad)
		})
	}
}

func TestRewriteV12_ReportsChanges(t *testing.T) {
	var v11, v12 yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(`{"apis": [{"path": "/a", "operations": [{"nickname": "a", "httpMethod": "GET"}]}]}`), &v11))
	require.NoError(t, yaml.Unmarshal([]byte(`{"apis": [{"path": "/a", "operations": [{"nickname": "a", "method": "GET"}]}]}`), &v12))

	assert.False(t, rewriteV12(&v11))
	assert.True(t, rewriteV12(&v12))
	assert.False(t, rewriteV12(&v12), "a rewritten document is already 1.1")
}

func TestDecodeDeclaration_ReportsRewrite(t *testing.T) {
	_, changed, err := decodeDeclaration([]byte(`{"basePath": "http://h", "apis": [{"path": "/a", "operations": [{"nickname": "a", "method": "GET"}]}]}`))
	require.NoError(t, err)
	assert.True(t, changed)

	_, changed, err = decodeListing([]byte(`{"apis": [{"path": "/a", "api_declaration": {"basePath": "http://h", "apis": []}}]}`))
	require.NoError(t, err)
	assert.False(t, changed)
}

package spec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// petListing has one resource with two api paths, a websocket operation and
// two models.
const petListing = `{
  "apiVersion": "1.0",
  "swaggerVersion": "1.1",
  "basePath": "http://h",
  "apis": [
    {
      "path": "/api-docs/pets.{format}",
      "description": "Pets",
      "api_declaration": {
        "basePath": "http://h/api",
        "resourcePath": "/pets",
        "apis": [
          {
            "path": "/pets",
            "operations": [
              {
                "nickname": "listPets",
                "httpMethod": "GET",
                "parameters": [
                  {"name": "tags", "paramType": "query", "required": false, "allowMultiple": true},
                  {"name": "limit", "paramType": "query", "required": false}
                ]
              },
              {
                "nickname": "addPet",
                "httpMethod": "POST",
                "parameters": [
                  {"name": "pet", "paramType": "body", "required": true}
                ],
                "errorResponses": [
                  {"code": 400, "reason": "Invalid pet"},
                  {"code": 409, "reason": "Pet exists"}
                ]
              }
            ]
          },
          {
            "path": "/pets/{id}",
            "operations": [
              {
                "nickname": "getPet",
                "httpMethod": "GET",
                "parameters": [
                  {"name": "id", "paramType": "path", "required": true}
                ],
                "errorResponses": [{"code": 404, "reason": "Not found"}]
              }
            ]
          },
          {
            "path": "/events",
            "operations": [
              {
                "nickname": "eventWebsocket",
                "httpMethod": "GET",
                "upgrade": "websocket",
                "parameters": [
                  {"name": "app", "paramType": "query", "required": true}
                ]
              }
            ]
          }
        ],
        "models": {
          "Pet": {
            "id": "Pet",
            "properties": {
              "name": {"type": "string", "required": true},
              "id": {"type": "long"},
              "tags": {"type": "List[string]"}
            }
          },
          "Event": {
            "id": "Event",
            "properties": {
              "type": {"type": "string"},
              "pet": {"type": "Pet"}
            }
          }
        }
      }
    }
  ]
}`

func decodeFixture(t *testing.T, doc string) *ResourceListing {
	t.Helper()
	listing, err := Decode([]byte(doc))
	require.NoError(t, err)
	return listing
}

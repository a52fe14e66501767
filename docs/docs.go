// Package docs registers the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/sessions": {
            "post": {
                "tags": ["sessions"],
                "summary": "Commit a game session",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sessions/{id}/reveal": {
            "post": {
                "tags": ["sessions"],
                "summary": "Reveal a session seed (one-shot)",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/scores": {
            "post": {
                "tags": ["scores"],
                "summary": "Submit a game score",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/attestation/key": {
            "get": {
                "tags": ["scores"],
                "summary": "Get the attestation public key",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/raffles/{day}": {
            "get": {
                "tags": ["raffles"],
                "summary": "Get a day's raffle result",
                "parameters": [{"type": "string", "name": "day", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/raffles/{day}/proof/{wallet}": {
            "get": {
                "tags": ["raffles"],
                "summary": "Get a wallet's Merkle inclusion proof",
                "parameters": [
                    {"type": "string", "name": "day", "in": "path", "required": true},
                    {"type": "string", "name": "wallet", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/raffles/{day}/verify/{wallet}": {
            "get": {
                "tags": ["raffles"],
                "summary": "Verify a wallet's inclusion against the published root",
                "parameters": [
                    {"type": "string", "name": "day", "in": "path", "required": true},
                    {"type": "string", "name": "wallet", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/draw": {
            "post": {
                "security": [{"TelegramInitData": []}],
                "tags": ["admin"],
                "summary": "Trigger a daily draw manually",
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        }
    },
    "securityDefinitions": {
        "TelegramInitData": {
            "type": "apiKey",
            "name": "init_data",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "VRF Raffle API",
	Description:      "Verifiable-random daily raffle over ranked game scores.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

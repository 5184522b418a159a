// Package docs holds the swagger description of the awaz API, served at /swagger.
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
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register an inactive citizen account and email an activation link",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/auth/activate/{uid}/{token}": {
            "get": {
                "tags": ["auth"],
                "summary": "Activate an account from its emailed link",
                "parameters": [
                    {"in": "path", "name": "uid", "type": "string", "required": true},
                    {"in": "path", "name": "token", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in with email and password",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
            }
        },
        "/auth/logout": {
            "get": {
                "tags": ["auth"],
                "security": [{"BearerAuth": []}],
                "summary": "Revoke the presented access token",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/password/forgot": {
            "post": {
                "tags": ["password"],
                "summary": "Email a password reset link",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "429": {"description": "Too Many Requests"}}
            }
        },
        "/password/reset/{uid}/{token}": {
            "get": {
                "tags": ["password"],
                "summary": "Validate a reset link and open a reset session",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/password/reset": {
            "post": {
                "tags": ["password"],
                "summary": "Set a new password with a reset session",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/complaints": {
            "get": {
                "tags": ["complaints"],
                "security": [{"BearerAuth": []}],
                "summary": "List visible complaints plus the caller's own",
                "parameters": [
                    {"in": "query", "name": "q", "type": "string"},
                    {"in": "query", "name": "category_id", "type": "integer"},
                    {"in": "query", "name": "status_id", "type": "integer"},
                    {"in": "query", "name": "municipality_id", "type": "integer"},
                    {"in": "query", "name": "ward_number", "type": "integer"},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "page_size", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["complaints"],
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data", "application/json"],
                "summary": "File a complaint",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/complaints/{id}/report": {
            "post": {
                "tags": ["complaints"],
                "security": [{"BearerAuth": []}],
                "summary": "Toggle the caller's report; three reports hide a complaint",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            }
        },
        "/complaints/{id}/like": {
            "post": {
                "tags": ["complaints"],
                "security": [{"BearerAuth": []}],
                "summary": "Toggle the caller's like",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            }
        },
        "/dashboard/municipality": {
            "get": {
                "tags": ["dashboard"],
                "security": [{"BearerAuth": []}],
                "summary": "Ward complaints with status counts",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        },
        "/dashboard/admin": {
            "get": {
                "tags": ["dashboard"],
                "security": [{"BearerAuth": []}],
                "summary": "Visible complaints with site totals",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        },
        "/admin/complaints/export": {
            "get": {
                "tags": ["admin"],
                "security": [{"BearerAuth": []}],
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "summary": "Export complaints matching the filter as xlsx",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["first_name", "last_name", "email", "phone_number", "password", "confirm_password"],
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "phone_number": {"type": "string"},
                "password": {"type": "string"},
                "confirm_password": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Awaz API",
	Description:      "Citizens file municipal complaints; municipality staff and admins triage and moderate them.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs holds the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/main.go -o docs
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in",
                "parameters": [
                    {"description": "Phone number (or email) and password", "name": "credentials", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Create a citizen account",
                "parameters": [
                    {"description": "New account", "name": "account", "in": "body", "required": true, "schema": {"$ref": "#/definitions/auth.Registration"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign out",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}}
            }
        },
        "/auth/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Edit the current user's profile",
                "parameters": [
                    {"description": "Fields to change", "name": "profile", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.ProfileUpdate"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}}
            }
        },
        "/complaints": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["complaints"],
                "summary": "Search complaints",
                "parameters": [
                    {"type": "string", "description": "Text in title, description or location", "name": "query", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Category ids (1-5)", "name": "categories", "in": "query"},
                    {"type": "string", "description": "Today, Yesterday, Tomorrow, This week or a day", "name": "date", "in": "query"},
                    {"type": "string", "description": "Location substring", "name": "location", "in": "query"},
                    {"type": "string", "description": "Status or All", "name": "status", "in": "query"},
                    {"type": "boolean", "description": "Reload before filtering", "name": "refresh", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["complaints"],
                "summary": "File a complaint",
                "parameters": [
                    {"description": "Complaint form", "name": "complaint", "in": "body", "required": true, "schema": {"$ref": "#/definitions/complaint.Draft"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/complaints/grouped": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["complaints"],
                "summary": "Leader complaint list grouped by age",
                "parameters": [
                    {"type": "string", "description": "desc (default) or asc", "name": "order", "in": "query"},
                    {"type": "string", "description": "Status or All", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/complaints/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["complaints"],
                "summary": "Complaint detail",
                "parameters": [{"type": "integer", "description": "Complaint id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["complaints"],
                "summary": "Answer a complaint",
                "parameters": [
                    {"type": "integer", "description": "Complaint id", "name": "id", "in": "path", "required": true},
                    {"description": "Response text and new status", "name": "response", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.RespondRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["complaints"],
                "summary": "Delete a complaint",
                "parameters": [{"type": "integer", "description": "Complaint id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/notifications": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Notification feed",
                "parameters": [{"type": "boolean", "description": "Reload the feed first", "name": "refresh", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}}
            }
        },
        "/notifications/read-all": {
            "put": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Mark the whole feed as read",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}}
            }
        },
        "/notifications/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Notification detail",
                "parameters": [{"type": "string", "description": "Notification id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/notifications/{id}/read": {
            "put": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Mark one notification as read",
                "parameters": [{"type": "string", "description": "Notification id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/onboarding": {
            "get": {
                "produces": ["application/json"],
                "tags": ["onboarding"],
                "summary": "Whether the onboarding flow was completed",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["onboarding"],
                "summary": "Complete or reset onboarding",
                "parameters": [{"description": "Desired state", "name": "state", "in": "body", "schema": {"$ref": "#/definitions/handler.OnboardingState"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}}
            }
        }
    },
    "definitions": {
        "auth.Registration": {
            "type": "object",
            "required": ["name", "password", "phoneNumber"],
            "properties": {
                "email": {"type": "string"},
                "language": {"type": "string"},
                "location": {"type": "string"},
                "name": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "phoneNumber": {"type": "string"}
            }
        },
        "complaint.Draft": {
            "type": "object",
            "required": ["category", "description", "images", "title"],
            "properties": {
                "category": {"type": "string"},
                "description": {"type": "string"},
                "images": {"type": "array", "maxItems": 5, "minItems": 1, "items": {"type": "string"}},
                "leader": {"$ref": "#/definitions/models.Leader"},
                "location": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "handler.ErrorBody": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.LoginRequest": {
            "type": "object",
            "required": ["password", "phoneNumber"],
            "properties": {
                "password": {"type": "string"},
                "phoneNumber": {"type": "string"}
            }
        },
        "handler.OnboardingState": {
            "type": "object",
            "properties": {"seen": {"type": "boolean"}}
        },
        "handler.RespondRequest": {
            "type": "object",
            "required": ["text"],
            "properties": {
                "status": {"type": "string"},
                "text": {"type": "string"}
            }
        },
        "handler.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/handler.ErrorBody"},
                "success": {"type": "boolean"}
            }
        },
        "models.Leader": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "responsibilities": {"type": "string"}
            }
        },
        "models.ProfileUpdate": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "language": {"type": "string"},
                "location": {"type": "string"},
                "name": {"type": "string"},
                "phoneNumber": {"type": "string"},
                "profileImage": {"type": "string"}
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
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Citizen Voice API",
	Description:      "Local API over the citizen complaint store.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

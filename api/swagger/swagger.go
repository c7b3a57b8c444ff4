package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Admission Admin Console API",
        "description": "Operator console for the admission catalog, tuition comparison and chatbot knowledge base",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Administrator sign in and session"},
        {"name": "Pages", "description": "Resource list screens"},
        {"name": "Dialogs", "description": "Create and edit forms"},
        {"name": "Tuition", "description": "Tuition comparison across campuses"},
        {"name": "Knowledge", "description": "Chatbot knowledge base documents"},
        {"name": "Dashboard", "description": "Home page counters"},
        {"name": "Observability", "description": "Health and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Observability"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Sign in to the console",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Signed in", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not an administrator", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Sign out",
                "responses": {"200": {"description": "Signed out", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/auth/session": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current session status",
                "responses": {"200": {"description": "Session", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/pages/{resource}": {
            "get": {
                "tags": ["Pages"],
                "summary": "Current list view of a resource",
                "parameters": [{"$ref": "#/parameters/resource"}],
                "responses": {
                    "200": {"description": "List view", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Session expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown resource", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/pages/{resource}/initialize": {
            "post": {
                "tags": ["Pages"],
                "summary": "Load page 1 with default filters",
                "parameters": [{"$ref": "#/parameters/resource"}],
                "responses": {"200": {"description": "List view", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/pages/{resource}/filters": {
            "put": {
                "tags": ["Pages"],
                "summary": "Change a filter and reload page 1",
                "parameters": [
                    {"$ref": "#/parameters/resource"},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/FilterRequest"}}
                ],
                "responses": {"200": {"description": "List view", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/pages/{resource}/page": {
            "put": {
                "tags": ["Pages"],
                "summary": "Load another page",
                "parameters": [
                    {"$ref": "#/parameters/resource"},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/GoToPageRequest"}}
                ],
                "responses": {"200": {"description": "List view", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/pages/{resource}/refresh": {
            "post": {
                "tags": ["Pages"],
                "summary": "Reload the current page",
                "parameters": [{"$ref": "#/parameters/resource"}],
                "responses": {"200": {"description": "List view", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/pages/{resource}/export": {
            "get": {
                "tags": ["Pages"],
                "summary": "Export the visible rows",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"$ref": "#/parameters/resource"},
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/api/pages/{resource}/items/{id}": {
            "delete": {
                "tags": ["Pages"],
                "summary": "Delete a row and reload the list",
                "parameters": [
                    {"$ref": "#/parameters/resource"},
                    {"in": "path", "name": "id", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "List view", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Row still referenced", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/pages/{resource}/dialogs/{mode}": {
            "get": {
                "tags": ["Dialogs"],
                "summary": "Current dialog state",
                "parameters": [{"$ref": "#/parameters/resource"}, {"$ref": "#/parameters/mode"}],
                "responses": {"200": {"description": "Dialog", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "patch": {
                "tags": ["Dialogs"],
                "summary": "Merge field values into a dialog",
                "parameters": [
                    {"$ref": "#/parameters/resource"},
                    {"$ref": "#/parameters/mode"},
                    {"in": "body", "name": "fields", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "Dialog", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/pages/{resource}/dialogs/{mode}/open": {
            "post": {
                "tags": ["Dialogs"],
                "summary": "Open the create dialog or the edit dialog for a row",
                "parameters": [
                    {"$ref": "#/parameters/resource"},
                    {"$ref": "#/parameters/mode"},
                    {"in": "body", "name": "payload", "schema": {"$ref": "#/definitions/OpenEditRequest"}}
                ],
                "responses": {"200": {"description": "Dialog", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/pages/{resource}/dialogs/{mode}/submit": {
            "post": {
                "tags": ["Dialogs"],
                "summary": "Validate and submit a dialog",
                "parameters": [{"$ref": "#/parameters/resource"}, {"$ref": "#/parameters/mode"}],
                "responses": {
                    "200": {"description": "Dialog and list", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Field errors", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/pages/{resource}/dialogs/{mode}/close": {
            "post": {
                "tags": ["Dialogs"],
                "summary": "Close a dialog",
                "parameters": [{"$ref": "#/parameters/resource"}, {"$ref": "#/parameters/mode"}],
                "responses": {"200": {"description": "Dialog", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/tuition/comparison": {
            "get": {
                "tags": ["Tuition"],
                "summary": "Compare tuition across campuses",
                "parameters": [
                    {"in": "query", "name": "program_code", "type": "string"},
                    {"in": "query", "name": "year", "type": "integer"}
                ],
                "responses": {"200": {"description": "Comparison rows", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/tuition/reference": {
            "get": {
                "tags": ["Tuition"],
                "summary": "Filter options for the comparison",
                "responses": {"200": {"description": "Programs, campuses and years", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/knowledge/uploads": {
            "post": {
                "tags": ["Knowledge"],
                "summary": "Queue a document upload",
                "consumes": ["multipart/form-data"],
                "parameters": [{"in": "formData", "name": "file", "type": "file", "required": true}],
                "responses": {
                    "202": {"description": "Upload ticket", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Unsupported file", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Knowledge"],
                "summary": "List upload tickets",
                "responses": {"200": {"description": "Tickets", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/knowledge/uploads/{id}": {
            "get": {
                "tags": ["Knowledge"],
                "summary": "Poll one upload ticket",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Ticket", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/knowledge/documents": {
            "get": {
                "tags": ["Knowledge"],
                "summary": "List stored documents",
                "responses": {"200": {"description": "Documents", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/knowledge/documents/{filename}": {
            "delete": {
                "tags": ["Knowledge"],
                "summary": "Delete a stored document",
                "parameters": [{"in": "path", "name": "filename", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Deleted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/knowledge/status": {
            "get": {
                "tags": ["Knowledge"],
                "summary": "Knowledge base storage status",
                "responses": {"200": {"description": "Status", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/dashboard/stats": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Record counts per resource",
                "responses": {"200": {"description": "Counters", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/console/metrics": {
            "get": {
                "tags": ["Observability"],
                "summary": "Request, cache and upload counters",
                "responses": {"200": {"description": "Snapshot", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "parameters": {
        "resource": {
            "in": "path",
            "name": "resource",
            "required": true,
            "type": "string",
            "enum": ["admission-methods", "campuses", "departments", "programs", "scholarships", "tuition", "users"]
        },
        "mode": {
            "in": "path",
            "name": "mode",
            "required": true,
            "type": "string",
            "enum": ["create", "edit"]
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "FilterRequest": {
            "type": "object",
            "required": ["key"],
            "properties": {
                "key": {"type": "string"},
                "value": {"type": "string"}
            }
        },
        "GoToPageRequest": {
            "type": "object",
            "required": ["page"],
            "properties": {
                "page": {"type": "integer"}
            }
        },
        "OpenEditRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}

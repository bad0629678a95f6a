// Package docs holds the OpenAPI document served at /swagger.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "summary": "Database health check",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/files": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "summary": "Upload a patient or doctor file",
                "parameters": [
                    {"type": "file", "name": "file", "in": "formData", "required": true},
                    {"enum": ["Patient", "Doctor"], "type": "string", "name": "owner_kind", "in": "formData", "required": true},
                    {"type": "string", "format": "uuid", "name": "owner_id", "in": "formData", "required": true},
                    {
                        "enum": ["medical_record", "prescription", "lab_result", "doctor_certification", "registration_certificate", "government_id", "profile_photo", "other"],
                        "type": "string", "name": "category", "in": "formData", "required": true
                    },
                    {"type": "string", "name": "description", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.fileResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Owner Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/files/{id}": {
            "get": {
                "produces": ["application/json"],
                "summary": "Get an active file",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.fileResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Update a file description",
                "parameters": [
                    {"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateFileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.fileResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "summary": "Soft-delete a file",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.fileResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/files/{id}/audit": {
            "get": {
                "produces": ["application/json"],
                "summary": "Get a file including soft-deleted ones",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.fileResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/owners/{kind}/{id}/files": {
            "get": {
                "produces": ["application/json"],
                "summary": "List the active files of a patient or doctor",
                "parameters": [
                    {"enum": ["Patient", "Doctor"], "type": "string", "name": "kind", "in": "path", "required": true},
                    {"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "default": 10, "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.fileListResponse"}}
                }
            }
        },
        "/doctors/{id}/patients/export": {
            "get": {
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "summary": "Download the doctor's patient roster",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Doctor Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Report Failed", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/doctors/{id}/invoice": {
            "get": {
                "produces": ["application/pdf"],
                "summary": "Download the doctor's invoice",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Doctor Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Report Failed", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "error": {
                    "type": "object",
                    "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
                }
            }
        },
        "handler.updateFileRequest": {
            "type": "object",
            "required": ["description"],
            "properties": {"description": {"type": "string", "maxLength": 1000}}
        },
        "handler.fileResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "owner": {
                    "type": "object",
                    "properties": {"kind": {"type": "string"}, "id": {"type": "string"}}
                },
                "storage": {
                    "type": "object",
                    "properties": {
                        "provider_id": {"type": "string"},
                        "url": {"type": "string"},
                        "secure_url": {"type": "string"},
                        "format": {"type": "string"},
                        "resource_type": {"type": "string"},
                        "bytes": {"type": "integer"}
                    }
                },
                "filename": {"type": "string"},
                "mime_type": {"type": "string"},
                "size": {"type": "integer"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "uploaded_at": {"type": "string"},
                "deleted_at": {"type": "string"},
                "thumbnail_url": {"type": "string"}
            }
        },
        "handler.fileListResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/handler.fileResponse"}},
                "total": {"type": "integer"},
                "limit": {"type": "integer"},
                "offset": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Second Opinion API",
	Description:      "Patient and doctor files, patient rosters and invoices.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

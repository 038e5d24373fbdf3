package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Tenant Admin API",
        "description": "Multi-tenant administration core: organization-type governance, document requirements and runtime configuration",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "OrganizationTypes", "description": "Organization-type governance and directory"},
        {"name": "DocumentTypes", "description": "Document type definitions and layered requirements"},
        {"name": "Documents", "description": "Document uploads and signed downloads"},
        {"name": "SystemConfig", "description": "Runtime configuration registry"},
        {"name": "AuditLogs", "description": "Audit trail"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Dependencies unavailable"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and obtain an access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/org-types": {
            "get": {
                "tags": ["OrganizationTypes"],
                "summary": "List organization types",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "platform_id", "in": "query", "type": "string"},
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "scope", "in": "query", "type": "string", "enum": ["global", "platform", "all"]},
                    {"name": "include_inactive", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["OrganizationTypes"],
                "summary": "Propose or create an organization type",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateOrgTypeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Code already in use"}
                }
            }
        },
        "/org-types/search": {
            "get": {
                "tags": ["OrganizationTypes"],
                "summary": "Search organization types",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "q", "in": "query", "type": "string"},
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "scope", "in": "query", "type": "string"},
                    {"name": "platform_id", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/org-types/bulk": {
            "post": {
                "tags": ["OrganizationTypes"],
                "summary": "Bulk approve or reject pending types",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkReviewRequest"}}
                ],
                "responses": {
                    "200": {"description": "Batch outcome", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/org-types/review": {
            "get": {
                "tags": ["OrganizationTypes"],
                "summary": "List platform types due for governance review",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/org-types/{id}/approve": {
            "post": {
                "tags": ["OrganizationTypes"],
                "summary": "Approve a pending organization type",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Approved"},
                    "409": {"description": "Type is not pending"}
                }
            }
        },
        "/org-types/{id}/reject": {
            "post": {
                "tags": ["OrganizationTypes"],
                "summary": "Reject a pending organization type",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RejectOrgTypeRequest"}}
                ],
                "responses": {
                    "200": {"description": "Rejected"},
                    "409": {"description": "Type is not pending"}
                }
            }
        },
        "/org-types/{id}/archive": {
            "post": {
                "tags": ["OrganizationTypes"],
                "summary": "Archive an unused organization type",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Archived"},
                    "409": {"description": "Type still in use"}
                }
            }
        },
        "/org-types/{id}/promote": {
            "post": {
                "tags": ["OrganizationTypes"],
                "summary": "Promote a platform type to global scope",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/PromoteOrgTypeRequest"}}
                ],
                "responses": {
                    "200": {"description": "Promoted or merged"},
                    "409": {"description": "A global type with the same code exists; supply merge_with_id"}
                }
            }
        },
        "/org-types/{id}/mark-reviewed": {
            "post": {
                "tags": ["OrganizationTypes"],
                "summary": "Record a completed governance review for a platform type",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Review recorded"},
                    "400": {"description": "Type is not platform scoped"}
                }
            }
        },
        "/document-types": {
            "get": {
                "tags": ["DocumentTypes"],
                "summary": "List document types",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "layer", "in": "query", "type": "string", "enum": ["PLATFORM", "ORGANIZATION", "USER"]},
                    {"name": "include_inactive", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["DocumentTypes"],
                "summary": "Define a document type",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateDocumentTypeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Key already in use"}
                }
            }
        },
        "/document-types/{id}": {
            "get": {
                "tags": ["DocumentTypes"],
                "summary": "Get a document type",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["DocumentTypes"],
                "summary": "Update a document type",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Updated"}
                }
            },
            "delete": {
                "tags": ["DocumentTypes"],
                "summary": "Delete a document type",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "409": {"description": "Documents still reference the type"}
                }
            }
        },
        "/document-types/{id}/requirements": {
            "put": {
                "tags": ["DocumentTypes"],
                "summary": "Set a requirement override",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Override stored"}
                }
            },
            "delete": {
                "tags": ["DocumentTypes"],
                "summary": "Remove a requirement override",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Override removed"}
                }
            }
        },
        "/document-types/{id}/required": {
            "get": {
                "tags": ["DocumentTypes"],
                "summary": "Resolve the effective required flag for a target",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "for_layer", "in": "query", "required": true, "type": "string"},
                    {"name": "for_layer_id", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/documents": {
            "get": {
                "tags": ["Documents"],
                "summary": "List documents owned by an entity",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "owner_layer", "in": "query", "required": true, "type": "string"},
                    {"name": "owner_id", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Documents"],
                "summary": "Upload a document",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"},
                    {"name": "type_key", "in": "formData", "required": true, "type": "string"},
                    {"name": "owner_layer", "in": "formData", "required": true, "type": "string"},
                    {"name": "owner_id", "in": "formData", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Stored"},
                    "400": {"description": "Size or mime type rejected"}
                }
            }
        },
        "/documents/{id}/url": {
            "get": {
                "tags": ["Documents"],
                "summary": "Issue a short-lived signed download URL",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/documents/download": {
            "get": {
                "tags": ["Documents"],
                "summary": "Stream a document via a signed token",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File content"},
                    "401": {"description": "Token invalid or expired"}
                }
            }
        },
        "/config": {
            "get": {
                "tags": ["SystemConfig"],
                "summary": "List configuration entries",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "put": {
                "tags": ["SystemConfig"],
                "summary": "Update multiple configuration entries",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Effective values"}
                }
            }
        },
        "/config/{key}": {
            "get": {
                "tags": ["SystemConfig"],
                "summary": "Get a configuration entry",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "key", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Unknown key"}
                }
            },
            "put": {
                "tags": ["SystemConfig"],
                "summary": "Update a configuration entry",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "key", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Updated"},
                    "400": {"description": "Unknown key or malformed value"}
                }
            }
        },
        "/audit-logs": {
            "get": {
                "tags": ["AuditLogs"],
                "summary": "List audit log entries",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "user_id", "in": "query", "type": "string"},
                    {"name": "action", "in": "query", "type": "string"},
                    {"name": "resource", "in": "query", "type": "string"},
                    {"name": "platform_id", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/audit-logs/export": {
            "get": {
                "tags": ["AuditLogs"],
                "summary": "Export the filtered audit trail",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File content"}
                }
            }
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
        "CreateOrgTypeRequest": {
            "type": "object",
            "required": ["code", "name", "category"],
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"},
                "category": {"type": "string"},
                "icon": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "RejectOrgTypeRequest": {
            "type": "object",
            "required": ["reason"],
            "properties": {
                "reason": {"type": "string"}
            }
        },
        "PromoteOrgTypeRequest": {
            "type": "object",
            "properties": {
                "merge_with_id": {"type": "string"}
            }
        },
        "BulkReviewRequest": {
            "type": "object",
            "required": ["type_ids", "action"],
            "properties": {
                "type_ids": {"type": "array", "items": {"type": "string"}},
                "action": {"type": "string", "enum": ["approve", "reject"]},
                "reason": {"type": "string"}
            }
        },
        "CreateDocumentTypeRequest": {
            "type": "object",
            "required": ["key", "name", "layer"],
            "properties": {
                "key": {"type": "string"},
                "name": {"type": "string"},
                "layer": {"type": "string"},
                "required_by_default": {"type": "boolean"},
                "allowed_mime_types": {"type": "array", "items": {"type": "string"}},
                "max_size_bytes": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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

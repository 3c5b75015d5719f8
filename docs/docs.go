// Package docs holds the Swagger description of the HTTP API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "DucCV"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Returns status 200 if the service is running",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {"type": "string"}
                        }
                    }
                }
            }
        },
        "/v1/services": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Services"],
                "summary": "List registered operations",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/response.ResponseData"}
                    }
                }
            }
        },
        "/v1/services/{service}/{operation}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Runs one registered operation with JSON encoded arguments",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Services"],
                "summary": "Invoke a service operation",
                "parameters": [
                    {"type": "string", "description": "Service name", "name": "service", "in": "path", "required": true},
                    {"type": "string", "description": "Operation name", "name": "operation", "in": "path", "required": true},
                    {
                        "description": "Arguments",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/model.InvocationRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.ResponseData"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ResponseData"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ResponseData"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ResponseData"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ResponseData"}}
                }
            }
        }
    },
    "definitions": {
        "model.InvocationRequest": {
            "type": "object",
            "properties": {
                "args": {"type": "array", "items": {}}
            }
        },
        "response.ResponseData": {
            "type": "object",
            "properties": {
                "data": {},
                "ec": {"type": "integer"},
                "error": {"type": "string"},
                "msg": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT authorization header",
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
	Title:            "SERVICE KIT APIs",
	Description:      "Remote service invocation over HTTP.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

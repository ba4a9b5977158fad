// Package docs registers the relay's OpenAPI document with swag.
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
        "/v1/roles/grant": {
            "post": {
                "summary": "Grant a role",
                "tags": [
                    "roles"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "X-Principal",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "X-Signature",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "X-Timestamp",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "validation"
                    },
                    "401": {
                        "description": "unauthenticated"
                    },
                    "403": {
                        "description": "access denied"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "state or duplicate"
                    },
                    "422": {
                        "description": "temporal"
                    }
                }
            }
        },
        "/v1/roles/revoke": {
            "post": {
                "summary": "Revoke a role",
                "tags": [
                    "roles"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "X-Principal",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "X-Signature",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "X-Timestamp",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "validation"
                    },
                    "401": {
                        "description": "unauthenticated"
                    },
                    "403": {
                        "description": "access denied"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "state or duplicate"
                    },
                    "422": {
                        "description": "temporal"
                    }
                }
            }
        },
        "/v1/roles/{role}/holders": {
            "get": {
                "summary": "List role holders",
                "tags": [
                    "roles"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "role",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "validation"
                    },
                    "401": {
                        "description": "unauthenticated"
                    },
                    "403": {
                        "description": "access denied"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "state or duplicate"
                    },
                    "422": {
                        "description": "temporal"
                    }
                }
            }
        },
        "/v1/roles/{role}/subjects/{subject}": {
            "get": {
                "summary": "Check a role",
                "tags": [
                    "roles"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "role",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "subject",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "validation"
                    },
                    "401": {
                        "description": "unauthenticated"
                    },
                    "403": {
                        "description": "access denied"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "state or duplicate"
                    },
                    "422": {
                        "description": "temporal"
                    }
                }
            }
        },
        "/v1/principals/{principal}/roles": {
            "get": {
                "summary": "List roles of a principal",
                "tags": [
                    "roles"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "principal",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "validation"
                    },
                    "401": {
                        "description": "unauthenticated"
                    },
                    "403": {
                        "description": "access denied"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "state or duplicate"
                    },
                    "422": {
                        "description": "temporal"
                    }
                }
            }
        },
        "/v1/elections": {
            "post": {
                "summary": "Create an election",
                "tags": [
                    "elections"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "X-Principal",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "X-Signature",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "X-Timestamp",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "Idempotency-Key",
                        "in": "header",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "validation"
                    },
                    "401": {
                        "description": "unauthenticated"
                    },
                    "403": {
                        "description": "access denied"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "state or duplicate"
                    },
                    "422": {
                        "description": "temporal"
                    }
                }
            },
            "get": {
                "summary": "List elections",
                "tags": [
                    "elections"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "validation"
                    },
                    "401": {
                        "description": "unauthenticated"
                    },
                    "403": {
                        "description": "access denied"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "state or duplicate"
                    },
                    "422": {
                        "description": "temporal"
                    }
                }
            }
        },
        "/v1/elections/{address}": {
            "get": {
                "summary": "Get election info",
                "tags": [
                    "elections"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "address",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "validation"
                    },
                    "401": {
                        "description": "unauthenticated"
                    },
                    "403": {
                        "description": "access denied"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "state or duplicate"
                    },
                    "422": {
                        "description": "temporal"
                    }
                }
            }
        },
        "/v1/elections/{address}/deactivate": {
            "post": {
                "summary": "Deactivate an election",
                "tags": [
                    "elections"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "X-Principal",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "X-Signature",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "X-Timestamp",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "address",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "validation"
                    },
                    "401": {
                        "description": "unauthenticated"
                    },
                    "403": {
                        "description": "access denied"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "state or duplicate"
                    },
                    "422": {
                        "description": "temporal"
                    }
                }
            }
        },
        "/v1/elections/{address}/reactivate": {
            "post": {
                "summary": "Reactivate an election",
                "tags": [
                    "elections"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "X-Principal",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "X-Signature",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "X-Timestamp",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "address",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "validation"
                    },
                    "401": {
                        "description": "unauthenticated"
                    },
                    "403": {
                        "description": "access denied"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "state or duplicate"
                    },
                    "422": {
                        "description": "temporal"
                    }
                }
            }
        },
        "/v1/elections/{address}/lifecycle/{action}": {
            "post": {
                "summary": "Advance the lifecycle (start-registration, start-voting, end)",
                "tags": [
                    "elections"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "X-Principal",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "X-Signature",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "X-Timestamp",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "Idempotency-Key",
                        "in": "header",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "address",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "action",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "validation"
                    },
                    "401": {
                        "description": "unauthenticated"
                    },
                    "403": {
                        "description": "access denied"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "state or duplicate"
                    },
                    "422": {
                        "description": "temporal"
                    }
                }
            }
        },
        "/v1/elections/{address}/result": {
            "post": {
                "summary": "Declare the result",
                "tags": [
                    "elections"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "X-Principal",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "X-Signature",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "X-Timestamp",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "Idempotency-Key",
                        "in": "header",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "address",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "validation"
                    },
                    "401": {
                        "description": "unauthenticated"
                    },
                    "403": {
                        "description": "access denied"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "state or duplicate"
                    },
                    "422": {
                        "description": "temporal"
                    }
                }
            },
            "get": {
                "summary": "Get the winner",
                "tags": [
                    "elections"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "address",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "validation"
                    },
                    "401": {
                        "description": "unauthenticated"
                    },
                    "403": {
                        "description": "access denied"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "state or duplicate"
                    },
                    "422": {
                        "description": "temporal"
                    }
                }
            }
        },
        "/v1/elections/{address}/results": {
            "get": {
                "summary": "Get per-candidate results",
                "tags": [
                    "elections"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "address",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "validation"
                    },
                    "401": {
                        "description": "unauthenticated"
                    },
                    "403": {
                        "description": "access denied"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "state or duplicate"
                    },
                    "422": {
                        "description": "temporal"
                    }
                }
            }
        },
        "/v1/elections/{address}/candidates": {
            "post": {
                "summary": "Register as candidate",
                "tags": [
                    "candidates"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "X-Principal",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "X-Signature",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "X-Timestamp",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "Idempotency-Key",
                        "in": "header",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "address",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "validation"
                    },
                    "401": {
                        "description": "unauthenticated"
                    },
                    "403": {
                        "description": "access denied"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "state or duplicate"
                    },
                    "422": {
                        "description": "temporal"
                    }
                }
            },
            "get": {
                "summary": "List candidates",
                "tags": [
                    "candidates"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "address",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "validation"
                    },
                    "401": {
                        "description": "unauthenticated"
                    },
                    "403": {
                        "description": "access denied"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "state or duplicate"
                    },
                    "422": {
                        "description": "temporal"
                    }
                }
            }
        },
        "/v1/elections/{address}/candidates/{candidate_id}": {
            "get": {
                "summary": "Get a candidate",
                "tags": [
                    "candidates"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "address",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "candidate_id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "validation"
                    },
                    "401": {
                        "description": "unauthenticated"
                    },
                    "403": {
                        "description": "access denied"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "state or duplicate"
                    },
                    "422": {
                        "description": "temporal"
                    }
                }
            }
        },
        "/v1/elections/{address}/candidates/{candidate_id}/validate": {
            "post": {
                "summary": "Approve or reject a candidate",
                "tags": [
                    "candidates"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "X-Principal",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "X-Signature",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "X-Timestamp",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "Idempotency-Key",
                        "in": "header",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "address",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "candidate_id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "validation"
                    },
                    "401": {
                        "description": "unauthenticated"
                    },
                    "403": {
                        "description": "access denied"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "state or duplicate"
                    },
                    "422": {
                        "description": "temporal"
                    }
                }
            }
        },
        "/v1/elections/{address}/votes": {
            "post": {
                "summary": "Cast a vote",
                "tags": [
                    "votes"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "X-Principal",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "X-Signature",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "X-Timestamp",
                        "in": "header",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "Idempotency-Key",
                        "in": "header",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "address",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "validation"
                    },
                    "401": {
                        "description": "unauthenticated"
                    },
                    "403": {
                        "description": "access denied"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "state or duplicate"
                    },
                    "422": {
                        "description": "temporal"
                    }
                }
            }
        },
        "/v1/elections/{address}/voters/{voter}": {
            "get": {
                "summary": "Voter status",
                "tags": [
                    "votes"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "address",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "voter",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "validation"
                    },
                    "401": {
                        "description": "unauthenticated"
                    },
                    "403": {
                        "description": "access denied"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "state or duplicate"
                    },
                    "422": {
                        "description": "temporal"
                    }
                }
            }
        },
        "/v1/mirror/elections": {
            "get": {
                "summary": "List mirrored elections",
                "tags": [
                    "mirror"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "validation"
                    },
                    "401": {
                        "description": "unauthenticated"
                    },
                    "403": {
                        "description": "access denied"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "state or duplicate"
                    },
                    "422": {
                        "description": "temporal"
                    }
                }
            }
        },
        "/v1/mirror/elections/{address}": {
            "get": {
                "summary": "Get a mirrored election",
                "tags": [
                    "mirror"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "address",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "validation"
                    },
                    "401": {
                        "description": "unauthenticated"
                    },
                    "403": {
                        "description": "access denied"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "state or duplicate"
                    },
                    "422": {
                        "description": "temporal"
                    }
                }
            }
        },
        "/v1/mirror/principals/{principal}/roles": {
            "get": {
                "summary": "Get mirrored roles",
                "tags": [
                    "mirror"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "principal",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "validation"
                    },
                    "401": {
                        "description": "unauthenticated"
                    },
                    "403": {
                        "description": "access denied"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "state or duplicate"
                    },
                    "422": {
                        "description": "temporal"
                    }
                }
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
	Title:            "ledgervote relay",
	Description:      "Signed gateway for role registry, election factory and election lifecycle operations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

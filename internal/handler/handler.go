// Package handler is the HTTP layer between the router and the services.
//
// Each endpoint is a typed function wrapped by Handle or HandleNoContent,
// which bind and validate the payload, log, trace and write the response.
package handler

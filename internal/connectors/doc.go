// Package connectors provides implementations of the Connector
// interface for each supported storefront. A connector knows which
// listing pages to fetch and how to lift product offers out of the
// storefront's markup.
//
// Connectors are assembled through Build at startup.
package connectors

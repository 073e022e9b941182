// Package driven defines the outbound ports of the hexagon: interfaces
// the core services depend on and adapters implement.
//
//   - ProductStore, ShopStore, PriceStore: persistence contracts
//   - SchedulerStore: scheduled task state
//   - Connector: per-storefront page enumeration and extraction
//   - Fetcher: HTTP page retrieval
//
// Implementations live under internal/adapters/driven and
// internal/connectors. Core services accept these interfaces and never
// construct concrete adapters themselves.
package driven

// Package integration contains the Integration bounded context.
// This context manages connections to external commerce systems on both
// sides of the dropshipping pipeline.
//
// Key concepts:
//   - WholesaleSource: Port interface for wholesaler platforms products are
//     collected from (OwnerClan, Domeggook, Zentrade)
//   - MarketplaceChannel: Port interface for marketplaces products are sold
//     on (Coupang, SmartStore, Gmarket, 11st)
//   - ProductListing: Entity binding a local product to a marketplace listing
//   - ChannelOrder: Value object representing orders fetched from a marketplace
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration

// Package markdown holds the pure stage of the vault sync pipeline: metadata
// parsing, image reference discovery, body rewriting, slug rules, and the
// category decision table. Apart from Loader, nothing here touches the
// filesystem or the network.
package markdown

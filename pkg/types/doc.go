// Package types defines the core types and interfaces used throughout relink.
// This includes the FS and Pather interfaces, the StorageID value type and
// the LinkInventory bookkeeping shared by discovery, the completeness gate
// and the relocator.
package types

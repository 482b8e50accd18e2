// Package workload replays deterministic cache access patterns and measures
// hit rates, so eviction policies can be compared under scan pollution.
//
// The patterns model a service with a hot working set that suffers a one-off
// cold scan: uniform references over a hot key range, a single pass of keys
// that are never referenced again, and a recovery phase measuring how much
// work a policy needs to regain its hit rate afterwards. Runs with the same
// seed produce the same key sequence for every policy under comparison.
package workload

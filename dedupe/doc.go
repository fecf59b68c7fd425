/*
Package dedupe contains a fixed size lookup for deduplicating scan output.

It is heavily inspired from Jeffrey Hodge's OppoBloom Filter:
https://github.com/jmhodges/opposite_of_a_bloom_filter

It uses a hashtable (utilising xxHash64) to construct a fixed-size
lookup with known collision rates to determine if a content id has been
seen previously during one index scan.

As opposed to a bloom filter, this lookup cache will not falsely report an
entry as duplicate (only up to 64 bit collision rate) but can return
false negatives up to the key size collision rate.

A false negative means a content id is yielded twice by a scan and has to
be caught again downstream; a false positive would silently drop a result,
which at the 64 bit collision rate is not a practical concern.
*/
package dedupe

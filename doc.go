/*
Package rowdb stores fixed-width records in an ordered key-value store
(Bolt by default; Pebble, Badger and an in-memory store are also available).

A record layout is described by a row.Row, parsed from a structure string like

	<pivot-12>,'=',<Cardinal UDate-3 {b64e}>,<short LCount-2>,<byte Flags-1>

and a record is a row.Entry: a single buffer holding every cell at a fixed
offset. Cardinal cells use the order-preserving codecs from package order, so
comparing encoded cells byte by byte matches comparing the numbers.

# Tables

A Table is a named set of Entries of one Row, keyed by the first (pivot)
cell. Keys shorter than the pivot are zero-padded, longer ones are
truncated, exactly like the cell itself.

# Technical Details

**Catalog.**
Table definitions live in the _catalog bucket, keyed by table name, as msgpack
documents holding the column layout, the creation time and a KSUID. The data
bucket is named after the KSUID, so a dropped and re-created table never sees
the old entries.

**Buckets.**
Bolt supports buckets natively. Pebble and Badger are flat, so a bucket is a
key prefix: 0x01 + name marks that the bucket exists, and the data keys are
0x02 + uvarint(len(name)) + name + key.

**Value**: the raw Entry buffer, exactly Row.ObjectSize() bytes.
*/
package rowdb

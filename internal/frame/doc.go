// Package frame implements the self-describing binary frame used to move
// list and sparse columns across process boundaries.
//
// File layout (little-endian):
//
//	[Header 32B][Payload][CRC32C of stored payload 4B]
//
// Header:
//
//	Magic u32 ("SPV1") | Version u32 | Layout u8 | Kind u8 | Compression u8 | Reserved u8
//	Rows u64 | RawSize u32 | StoredSize u32 | HeaderCRC u32
//
// StoredSize == 0 means the payload is stored uncompressed. The payload
// carries the column name, Roaring-serialized null masks, row lengths and the
// flat index/value buffers.
//
// Frames are transport, not storage: nothing here is versioned for
// long-term compatibility beyond rejecting unknown versions.
package frame

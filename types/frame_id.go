package types

// FrameID addresses a slot in the buffer pool, in [0, poolSize).
type FrameID int32

package protocol

// CommandBuffer is the byte-appendable sequence the demultiplexer
// fills one data byte at a time and the interpreter drains as a
// concatenation of length-prefixed records. No size limit is
// enforced; the host is trusted within one PROCESS window.
type CommandBuffer struct {
	buf []byte
}

// Append adds one byte to the end of the buffer.
func (c *CommandBuffer) Append(b byte) {
	c.buf = append(c.buf, b)
}

// Clear empties the buffer without releasing its backing array.
func (c *CommandBuffer) Clear() {
	c.buf = c.buf[:0]
}

// Bytes returns the buffer's current contents. The slice is only
// valid until the next Append or Clear.
func (c *CommandBuffer) Bytes() []byte {
	return c.buf
}

// Len reports the number of bytes currently buffered.
func (c *CommandBuffer) Len() int {
	return len(c.buf)
}

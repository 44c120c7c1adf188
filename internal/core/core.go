// Package core is the coprocessor's non-singleton context: it owns
// every table, demultiplexes inbound bus packets, and drives one
// PROCESS pulse through the interpreter and compositor.
package core

import (
	"sdhr-core/internal/assets"
	"sdhr-core/internal/compositor"
	"sdhr-core/internal/debug"
	"sdhr-core/internal/display"
	"sdhr-core/internal/memory"
	"sdhr-core/internal/protocol"
	"sdhr-core/internal/tileset"
	"sdhr-core/internal/window"
)

// Control pulse values carried in a control-channel packet's data byte.
const (
	ControlDisable = 0
	ControlEnable  = 1
	ControlProcess = 2
	ControlReset   = 3
)

// Core holds all coprocessor state for one client. Nothing here is a
// package-level singleton; a server creates one Core per connection.
type Core struct {
	Shadow   *memory.Shadow
	Upload   *memory.Upload
	Assets   *assets.Table
	Tilesets *tileset.Table
	Windows  *window.Table
	Buffer   protocol.CommandBuffer
	Logger   *debug.Logger
	Display  display.Backend

	interpreter *protocol.Interpreter
	enabled     bool
	errorFlag   bool
}

// New constructs a Core wired to decoder and backend, ready to accept
// packets.
func New(decoder assets.Decoder, backend display.Backend, logger *debug.Logger) *Core {
	c := &Core{
		Shadow:   memory.NewShadow(),
		Upload:   memory.NewUpload(),
		Assets:   assets.NewTable(decoder),
		Tilesets: tileset.NewTable(),
		Windows:  window.NewTable(),
		Logger:   logger,
		Display:  backend,
	}
	c.interpreter = &protocol.Interpreter{
		Shadow: c.Shadow, Upload: c.Upload,
		Assets: c.Assets, Tilesets: c.Tilesets, Windows: c.Windows,
		Logger: logger,
	}
	return c
}

// HandlePacket applies one 4-byte host bus packet: a shadow-memory
// write, a command-buffer append, or a control pulse. Addresses with
// an unrecognized low nibble (outside the shadow window, with a low
// nibble other than 0x00 or 0x01) are discarded.
func (c *Core) HandlePacket(addr uint16, data uint8) {
	if memory.InRange(addr) {
		// Shadow memory tracks host RAM even while disabled.
		c.Shadow.Write(addr, data)
		return
	}

	switch addr & 0x0F {
	case 0x00:
		c.controlPulse(data)
	case 0x01:
		c.Buffer.Append(data)
	}
}

func (c *Core) controlPulse(data uint8) {
	switch data {
	case ControlDisable:
		c.enabled = false
	case ControlEnable:
		c.enabled = true
	case ControlProcess:
		c.Process()
	case ControlReset:
		c.Reset()
	}
}

// Process drains the command buffer through the interpreter. The
// buffer is cleared on every exit path, success or failure (I5). On
// success, if the coprocessor is enabled, it composites a frame once
// the display backend's previous flip has completed.
func (c *Core) Process() error {
	c.errorFlag = false
	err := c.interpreter.Run(c.Buffer.Bytes())
	c.Buffer.Clear()

	if err != nil {
		c.errorFlag = true
		if c.Logger != nil {
			c.Logger.Logf(debug.ComponentInterpreter, debug.LogLevelError, "PROCESS failed: %v", err)
		}
		return err
	}

	if c.enabled && c.Display != nil {
		fb := c.Display.Acquire()
		compositor.Compose(c.Windows, c.Tilesets, fb)
		c.Display.Present()
	}
	return nil
}

// Reset reinitializes every table, clears the error flag, and empties
// the command buffer — mirroring the original's from-scratch
// reinitialization order: upload region, tables, shadow memory,
// buffer, error flag.
func (c *Core) Reset() {
	c.Upload.Reset()
	c.Assets.Reset()
	c.Tilesets.Reset()
	c.Windows.Reset()
	c.Shadow.Reset()
	c.Buffer.Clear()
	c.errorFlag = false
	c.enabled = false
}

// Enabled reports whether the coprocessor is currently enabled.
func (c *Core) Enabled() bool {
	return c.enabled
}

// ErrorFlag reports whether a PROCESS pulse has failed since the last
// Reset.
func (c *Core) ErrorFlag() bool {
	return c.errorFlag
}

// Package wasm is a general-purpose WebAssembly binary module builder: it
// accepts structured declarations of functions, globals, and memory, plus an
// append-only instruction encoder, and emits a spec-conformant Wasm binary.
// It knows nothing about Mood; internal/emitter is its only caller.
package wasm

import (
	"encoding/binary"
	"math"
)

var wasmMagic = []byte{0x00, 0x61, 0x73, 0x6D}
var wasmVersion = []byte{0x01, 0x00, 0x00, 0x00}

// section ids, in the canonical order the Wasm core spec requires.
const (
	sectionType     byte = 1
	sectionImport   byte = 2
	sectionFunction byte = 3
	sectionTable    byte = 4
	sectionMemory   byte = 5
	sectionGlobal   byte = 6
	sectionExport   byte = 7
	sectionStart    byte = 8
	sectionElement  byte = 9
	sectionCode     byte = 10
	sectionData     byte = 11
)

// ValType is a Wasm value type byte.
type ValType byte

const (
	I32 ValType = 0x7F
	I64 ValType = 0x7E
	F32 ValType = 0x7D
	F64 ValType = 0x7C
)

const funcTypeTag byte = 0x60

// export kinds.
const (
	exportKindFunc byte = 0x00
	exportKindMem  byte = 0x02
)

// control/variable/memory/numeric opcodes, per the coverage table in the
// core Wasm opcode set plus the bulk-memory memory.copy instruction.
const (
	opUnreachable   byte = 0x00
	opNop           byte = 0x01
	opBlock         byte = 0x02
	opLoop          byte = 0x03
	opIf            byte = 0x04
	opElse          byte = 0x05
	opEnd           byte = 0x0B
	opBr            byte = 0x0C
	opBrIf          byte = 0x0D
	opBrTable       byte = 0x0E
	opReturn        byte = 0x0F
	opCall          byte = 0x10
	opCallIndirect  byte = 0x11
	opDrop          byte = 0x1A
	opSelect        byte = 0x1B
	opLocalGet      byte = 0x20
	opLocalSet      byte = 0x21
	opLocalTee      byte = 0x22
	opGlobalGet     byte = 0x23
	opGlobalSet     byte = 0x24
	opI32Load       byte = 0x28
	opI32Store      byte = 0x36
	opMemorySize    byte = 0x3F
	opMemoryGrow    byte = 0x40
	opI32Const      byte = 0x41
	opF64Const      byte = 0x44
	opI32Eq         byte = 0x46
	opI32Add        byte = 0x6A
	opI32Sub        byte = 0x6B
	opI32Mul        byte = 0x6C
	opF64Eq         byte = 0x61
	opF64Add        byte = 0xA0
	opF64Sub        byte = 0xA1
	opF64Mul        byte = 0xA2
	opI32TruncF64S  byte = 0xAA
	opMiscPrefix    byte = 0xFC
	opMiscMemCopy   byte = 0x0A

	blockTypeEmpty byte = 0x40
)

func encodeLEB128U(value uint64) []byte {
	if value == 0 {
		return []byte{0}
	}
	var result []byte
	for value > 0 {
		b := byte(value & 0x7F)
		value >>= 7
		if value > 0 {
			b |= 0x80
		}
		result = append(result, b)
	}
	return result
}

func encodeLEB128S(value int64) []byte {
	var result []byte
	more := true
	for more {
		b := byte(value & 0x7F)
		value >>= 7
		if (value == 0 && b&0x40 == 0) || (value == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		result = append(result, b)
	}
	return result
}

func encodeF64(value float64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(value))
	return buf[:]
}

func encodeString(s string) []byte {
	result := encodeLEB128U(uint64(len(s)))
	return append(result, []byte(s)...)
}

func encodeSection(id byte, contents []byte) []byte {
	result := []byte{id}
	result = append(result, encodeLEB128U(uint64(len(contents)))...)
	return append(result, contents...)
}

func encodeVector(count int, items []byte) []byte {
	result := encodeLEB128U(uint64(count))
	return append(result, items...)
}

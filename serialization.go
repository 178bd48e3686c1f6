// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"encoding/binary"
	"fmt"
)

// Binary wire format: every type writes its shape parameters first as
// little-endian uint64 words, then its torus coefficients in index order.
// Deserialization checks the total length against the declared shape before
// touching any coefficient; any mismatch is a format error, never a partial
// read.

// fieldReader walks a little-endian uint64 stream with bounds checks.
type fieldReader struct {
	data []byte
	off  int
}

func (r *fieldReader) uint64() (uint64, error) {
	if r.off+8 > len(r.data) {
		return 0, fmt.Errorf("%w: truncated at offset %d", ErrFormat, r.off)
	}
	v := binary.LittleEndian.Uint64(r.data[r.off:])
	r.off += 8
	return v, nil
}

func (r *fieldReader) torusSlice(out []Torus) {
	for i := range out {
		out[i] = Torus(binary.LittleEndian.Uint64(r.data[r.off:]))
		r.off += 8
	}
}

// checkLength verifies that exactly words more uint64 fields remain.
func (r *fieldReader) checkLength(words uint64) error {
	if uint64(len(r.data)-r.off) != 8*words {
		return fmt.Errorf("%w: %d payload bytes, want %d", ErrFormat, len(r.data)-r.off, 8*words)
	}
	return nil
}

func appendTorusSlice(b []byte, s []Torus) []byte {
	for _, v := range s {
		b = binary.LittleEndian.AppendUint64(b, uint64(v))
	}
	return b
}

// shapeDim validates a deserialized shape field against sane bounds before
// it drives an allocation.
func shapeDim(what string, v uint64, max int) (int, error) {
	if v == 0 || v > uint64(max) {
		return 0, fmt.Errorf("%w: %s %d out of range [1, %d]", ErrFormat, what, v, max)
	}
	return int(v), nil
}

const (
	maxSerializedDim    = 1 << 20
	maxSerializedDegree = 1 << 16
	maxSerializedLevel  = 64
)

// MarshalBinary encodes the key as [dim][coeffs].
func (sk *LweSecretKey) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, 8*(1+sk.Dimension()))
	b = binary.LittleEndian.AppendUint64(b, uint64(sk.Dimension()))
	return appendTorusSlice(b, sk.Coeffs), nil
}

// UnmarshalBinary decodes a key written by MarshalBinary.
func (sk *LweSecretKey) UnmarshalBinary(data []byte) error {
	r := &fieldReader{data: data}
	v, err := r.uint64()
	if err != nil {
		return err
	}
	dim, err := shapeDim("LWE key dimension", v, maxSerializedDim)
	if err != nil {
		return err
	}
	if err := r.checkLength(uint64(dim)); err != nil {
		return err
	}
	sk.Coeffs = make([]Torus, dim)
	r.torusSlice(sk.Coeffs)
	return nil
}

// MarshalBinary encodes the key as [k][n][coeffs in component order].
func (sk *GlweSecretKey) MarshalBinary() ([]byte, error) {
	k, n := sk.Dimension(), sk.PolyDegree()
	b := make([]byte, 0, 8*(2+k*n))
	b = binary.LittleEndian.AppendUint64(b, uint64(k))
	b = binary.LittleEndian.AppendUint64(b, uint64(n))
	for z := range sk.Value {
		b = appendTorusSlice(b, sk.Value[z].Coeffs)
	}
	return b, nil
}

// UnmarshalBinary decodes a key written by MarshalBinary.
func (sk *GlweSecretKey) UnmarshalBinary(data []byte) error {
	r := &fieldReader{data: data}
	k, n, err := readGlweShape(r)
	if err != nil {
		return err
	}
	if err := r.checkLength(uint64(k) * uint64(n)); err != nil {
		return err
	}
	*sk = *NewGlweSecretKey(k, n)
	for z := range sk.Value {
		r.torusSlice(sk.Value[z].Coeffs)
	}
	return nil
}

// MarshalBinary encodes the ciphertext as [dim][mask][body].
func (ct *LweCiphertext) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, 8*(2+ct.Dimension()))
	b = binary.LittleEndian.AppendUint64(b, uint64(ct.Dimension()))
	b = appendTorusSlice(b, ct.Mask)
	return binary.LittleEndian.AppendUint64(b, uint64(ct.Body)), nil
}

// UnmarshalBinary decodes a ciphertext written by MarshalBinary.
func (ct *LweCiphertext) UnmarshalBinary(data []byte) error {
	r := &fieldReader{data: data}
	v, err := r.uint64()
	if err != nil {
		return err
	}
	dim, err := shapeDim("LWE dimension", v, maxSerializedDim)
	if err != nil {
		return err
	}
	if err := r.checkLength(uint64(dim) + 1); err != nil {
		return err
	}
	ct.Mask = make([]Torus, dim)
	r.torusSlice(ct.Mask)
	body, _ := r.uint64()
	ct.Body = Torus(body)
	return nil
}

func readGlweShape(r *fieldReader) (k, n int, err error) {
	kv, err := r.uint64()
	if err != nil {
		return 0, 0, err
	}
	nv, err := r.uint64()
	if err != nil {
		return 0, 0, err
	}
	if k, err = shapeDim("GLWE dimension", kv, maxSerializedDim); err != nil {
		return 0, 0, err
	}
	if n, err = shapeDim("ring degree", nv, maxSerializedDegree); err != nil {
		return 0, 0, err
	}
	return k, n, nil
}

func appendGlweBody(b []byte, ct *GlweCiphertext) []byte {
	for z := range ct.Mask {
		b = appendTorusSlice(b, ct.Mask[z].Coeffs)
	}
	return appendTorusSlice(b, ct.Body.Coeffs)
}

func readGlweBody(r *fieldReader, ct *GlweCiphertext) {
	for z := range ct.Mask {
		r.torusSlice(ct.Mask[z].Coeffs)
	}
	r.torusSlice(ct.Body.Coeffs)
}

// MarshalBinary encodes the ciphertext as [k][n][mask polys][body poly].
func (ct *GlweCiphertext) MarshalBinary() ([]byte, error) {
	k, n := ct.Dimension(), ct.PolyDegree()
	b := make([]byte, 0, 8*(2+(k+1)*n))
	b = binary.LittleEndian.AppendUint64(b, uint64(k))
	b = binary.LittleEndian.AppendUint64(b, uint64(n))
	return appendGlweBody(b, ct), nil
}

// UnmarshalBinary decodes a ciphertext written by MarshalBinary.
func (ct *GlweCiphertext) UnmarshalBinary(data []byte) error {
	r := &fieldReader{data: data}
	k, n, err := readGlweShape(r)
	if err != nil {
		return err
	}
	if err := r.checkLength(uint64(k+1) * uint64(n)); err != nil {
		return err
	}
	*ct = *NewGlweCiphertext(k, n)
	readGlweBody(r, ct)
	return nil
}

// MarshalBinary encodes the ciphertext as [k][n][baseLog][level] followed
// by every GLWE row in (row, level) order.
func (ct *GgswCiphertext) MarshalBinary() ([]byte, error) {
	k, n, level := ct.Dimension(), ct.PolyDegree(), ct.Level()
	b := make([]byte, 0, 8*(4+(k+1)*level*(k+1)*n))
	b = binary.LittleEndian.AppendUint64(b, uint64(k))
	b = binary.LittleEndian.AppendUint64(b, uint64(n))
	b = binary.LittleEndian.AppendUint64(b, uint64(ct.BaseLog))
	b = binary.LittleEndian.AppendUint64(b, uint64(level))
	for j := range ct.Value {
		for l := range ct.Value[j] {
			b = appendGlweBody(b, &ct.Value[j][l])
		}
	}
	return b, nil
}

// UnmarshalBinary decodes a ciphertext written by MarshalBinary.
func (ct *GgswCiphertext) UnmarshalBinary(data []byte) error {
	r := &fieldReader{data: data}
	k, n, err := readGlweShape(r)
	if err != nil {
		return err
	}
	blv, err := r.uint64()
	if err != nil {
		return err
	}
	lv, err := r.uint64()
	if err != nil {
		return err
	}
	baseLog, err := shapeDim("gadget base", blv, TorusBits)
	if err != nil {
		return err
	}
	level, err := shapeDim("gadget level", lv, maxSerializedLevel)
	if err != nil {
		return err
	}
	if err := r.checkLength(uint64(k+1) * uint64(level) * uint64(k+1) * uint64(n)); err != nil {
		return err
	}
	*ct = *NewGgswCiphertext(k, n, baseLog, level)
	for j := range ct.Value {
		for l := range ct.Value[j] {
			readGlweBody(r, &ct.Value[j][l])
		}
	}
	return nil
}

// MarshalBinary encodes the key as [inDim][outDim][baseLog][level] followed
// by every LWE row in (coefficient, level) order.
func (ksk *KeySwitchKey) MarshalBinary() ([]byte, error) {
	in, out, level := ksk.InputDimension(), ksk.OutputDimension(), ksk.Level()
	b := make([]byte, 0, 8*(4+in*level*(out+1)))
	b = binary.LittleEndian.AppendUint64(b, uint64(in))
	b = binary.LittleEndian.AppendUint64(b, uint64(out))
	b = binary.LittleEndian.AppendUint64(b, uint64(ksk.BaseLog))
	b = binary.LittleEndian.AppendUint64(b, uint64(level))
	for i := range ksk.Value {
		for l := range ksk.Value[i] {
			row := &ksk.Value[i][l]
			b = appendTorusSlice(b, row.Mask)
			b = binary.LittleEndian.AppendUint64(b, uint64(row.Body))
		}
	}
	return b, nil
}

// UnmarshalBinary decodes a key written by MarshalBinary.
func (ksk *KeySwitchKey) UnmarshalBinary(data []byte) error {
	r := &fieldReader{data: data}
	var fields [4]uint64
	for i := range fields {
		v, err := r.uint64()
		if err != nil {
			return err
		}
		fields[i] = v
	}
	in, err := shapeDim("source dimension", fields[0], maxSerializedDim)
	if err != nil {
		return err
	}
	out, err := shapeDim("destination dimension", fields[1], maxSerializedDim)
	if err != nil {
		return err
	}
	baseLog, err := shapeDim("gadget base", fields[2], TorusBits)
	if err != nil {
		return err
	}
	level, err := shapeDim("gadget level", fields[3], maxSerializedLevel)
	if err != nil {
		return err
	}
	if err := r.checkLength(uint64(in) * uint64(level) * uint64(out+1)); err != nil {
		return err
	}

	ksk.BaseLog = baseLog
	ksk.Value = make([][]LweCiphertext, in)
	for i := range ksk.Value {
		ksk.Value[i] = make([]LweCiphertext, level)
		for l := range ksk.Value[i] {
			row := NewLweCiphertext(out)
			r.torusSlice(row.Mask)
			body, _ := r.uint64()
			row.Body = Torus(body)
			ksk.Value[i][l] = *row
		}
	}
	return nil
}

// MarshalBinary encodes the key as [count] followed by every GGSW entry,
// each length-prefixed so shapes are validated per entry.
func (bsk *BootstrapKey) MarshalBinary() ([]byte, error) {
	b := binary.LittleEndian.AppendUint64(nil, uint64(len(bsk.Value)))
	for i := range bsk.Value {
		entry, err := bsk.Value[i].MarshalBinary()
		if err != nil {
			return nil, err
		}
		b = binary.LittleEndian.AppendUint64(b, uint64(len(entry)))
		b = append(b, entry...)
	}
	return b, nil
}

// UnmarshalBinary decodes a key written by MarshalBinary.
func (bsk *BootstrapKey) UnmarshalBinary(data []byte) error {
	r := &fieldReader{data: data}
	cv, err := r.uint64()
	if err != nil {
		return err
	}
	count, err := shapeDim("bootstrap key length", cv, maxSerializedDim)
	if err != nil {
		return err
	}

	bsk.Value = make([]GgswCiphertext, count)
	for i := 0; i < count; i++ {
		sz, err := r.uint64()
		if err != nil {
			return err
		}
		if sz > uint64(len(r.data)-r.off) {
			return fmt.Errorf("%w: entry %d length %d exceeds remaining %d", ErrFormat, i, sz, len(r.data)-r.off)
		}
		if err := bsk.Value[i].UnmarshalBinary(r.data[r.off : r.off+int(sz)]); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		r.off += int(sz)
	}
	if r.off != len(r.data) {
		return fmt.Errorf("%w: %d trailing bytes", ErrFormat, len(r.data)-r.off)
	}
	return nil
}

// MarshalBinary encodes both halves of the secret key, each
// length-prefixed.
func (sk *SecretKey) MarshalBinary() ([]byte, error) {
	lwe, err := sk.Lwe.MarshalBinary()
	if err != nil {
		return nil, err
	}
	glwe, err := sk.Glwe.MarshalBinary()
	if err != nil {
		return nil, err
	}
	b := binary.LittleEndian.AppendUint64(nil, uint64(len(lwe)))
	b = append(b, lwe...)
	b = binary.LittleEndian.AppendUint64(b, uint64(len(glwe)))
	return append(b, glwe...), nil
}

// UnmarshalBinary decodes a secret key written by MarshalBinary.
func (sk *SecretKey) UnmarshalBinary(data []byte) error {
	r := &fieldReader{data: data}
	sk.Lwe, sk.Glwe = &LweSecretKey{}, &GlweSecretKey{}
	for _, part := range []interface{ UnmarshalBinary([]byte) error }{sk.Lwe, sk.Glwe} {
		sz, err := r.uint64()
		if err != nil {
			return err
		}
		if sz > uint64(len(r.data)-r.off) {
			return fmt.Errorf("%w: part length %d exceeds remaining %d", ErrFormat, sz, len(r.data)-r.off)
		}
		if err := part.UnmarshalBinary(r.data[r.off : r.off+int(sz)]); err != nil {
			return err
		}
		r.off += int(sz)
	}
	if r.off != len(r.data) {
		return fmt.Errorf("%w: %d trailing bytes", ErrFormat, len(r.data)-r.off)
	}
	return nil
}

// MarshalBinary encodes the bootstrap and key-switch keys, each
// length-prefixed.
func (eks *EvaluationKeySet) MarshalBinary() ([]byte, error) {
	bsk, err := eks.Bsk.MarshalBinary()
	if err != nil {
		return nil, err
	}
	ksk, err := eks.Ksk.MarshalBinary()
	if err != nil {
		return nil, err
	}
	b := binary.LittleEndian.AppendUint64(nil, uint64(len(bsk)))
	b = append(b, bsk...)
	b = binary.LittleEndian.AppendUint64(b, uint64(len(ksk)))
	return append(b, ksk...), nil
}

// UnmarshalBinary decodes a key set written by MarshalBinary.
func (eks *EvaluationKeySet) UnmarshalBinary(data []byte) error {
	r := &fieldReader{data: data}
	eks.Bsk, eks.Ksk = &BootstrapKey{}, &KeySwitchKey{}
	for _, part := range []interface{ UnmarshalBinary([]byte) error }{eks.Bsk, eks.Ksk} {
		sz, err := r.uint64()
		if err != nil {
			return err
		}
		if sz > uint64(len(r.data)-r.off) {
			return fmt.Errorf("%w: part length %d exceeds remaining %d", ErrFormat, sz, len(r.data)-r.off)
		}
		if err := part.UnmarshalBinary(r.data[r.off : r.off+int(sz)]); err != nil {
			return err
		}
		r.off += int(sz)
	}
	if r.off != len(r.data) {
		return fmt.Errorf("%w: %d trailing bytes", ErrFormat, len(r.data)-r.off)
	}
	return nil
}

package abi

import (
	"bytes"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// DecodeMetadata decodes a msgpack metadata stream into a CodeObjectMetadata.
//
// The stream root is a map. Keys this package does not know, including
// non-string keys, are skipped together with their values. A known key whose
// value has the wrong type, is nil, or is a hash half outside uint32 range
// fails with ErrMalformedMetadata, as do truncated input and a missing or
// empty pipeline list. Optional fields that are absent keep their zero
// values.
//
// DecodeMetadata only reads b and keeps no reference to it.
func DecodeMetadata(b []byte) (CodeObjectMetadata, error) {
	d := metadataDecoder{dec: msgpack.NewDecoder(bytes.NewReader(b))}

	var md CodeObjectMetadata
	if err := d.root(&md); err != nil {
		slogger().Debug("abi: metadata decode failed", "bytes", len(b), "err", err)
		return CodeObjectMetadata{}, err
	}

	slogger().Debug("abi: metadata decoded",
		"pipeline", md.Pipeline.DisplayName(),
		"version", fmt.Sprintf("%d.%d", md.Version.Major, md.Version.Minor))
	return md, nil
}

type metadataDecoder struct {
	dec *msgpack.Decoder
}

func (d *metadataDecoder) fail(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformedMetadata, path, err)
}

// peek returns the code of the next value without consuming it.
func (d *metadataDecoder) peek(path string) (byte, error) {
	c, err := d.dec.PeekCode()
	if err != nil {
		return 0, d.fail(path, err)
	}
	return c, nil
}

// expect checks the next value's code against a type predicate and returns
// the code. Known keys never accept nil.
func (d *metadataDecoder) expect(path, want string, is func(byte) bool) (byte, error) {
	c, err := d.peek(path)
	if err != nil {
		return 0, err
	}
	if !is(c) {
		return 0, d.fail(path, fmt.Errorf("want %s, got code %#x", want, c))
	}
	return c, nil
}

func isMap(c byte) bool {
	return msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32
}

func isArray(c byte) bool {
	return msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32
}

func isBool(c byte) bool { return c == msgpcode.True || c == msgpcode.False }

func isInt(c byte) bool {
	if msgpcode.IsFixedNum(c) {
		return true
	}
	switch c {
	case msgpcode.Uint8, msgpcode.Uint16, msgpcode.Uint32, msgpcode.Uint64,
		msgpcode.Int8, msgpcode.Int16, msgpcode.Int32, msgpcode.Int64:
		return true
	}
	return false
}

func (d *metadataDecoder) mapLen(path string) (int, error) {
	if _, err := d.expect(path, "map", isMap); err != nil {
		return 0, err
	}
	n, err := d.dec.DecodeMapLen()
	if err != nil {
		return 0, d.fail(path, err)
	}
	return n, nil
}

func (d *metadataDecoder) arrayLen(path string) (int, error) {
	if _, err := d.expect(path, "array", isArray); err != nil {
		return 0, err
	}
	n, err := d.dec.DecodeArrayLen()
	if err != nil {
		return 0, d.fail(path, err)
	}
	return n, nil
}

// key reads a map key. ok is false for non-string keys, which have already
// been consumed; the caller must skip the value.
func (d *metadataDecoder) key(path string) (key string, ok bool, err error) {
	c, err := d.peek(path)
	if err != nil {
		return "", false, err
	}
	if !msgpcode.IsString(c) {
		if err := d.dec.Skip(); err != nil {
			return "", false, d.fail(path, err)
		}
		return "", false, nil
	}
	key, err = d.dec.DecodeString()
	if err != nil {
		return "", false, d.fail(path, err)
	}
	return key, true, nil
}

func (d *metadataDecoder) skip(path string) error {
	if err := d.dec.Skip(); err != nil {
		return d.fail(path, err)
	}
	return nil
}

func (d *metadataDecoder) str(path string) (string, error) {
	if _, err := d.expect(path, "string", msgpcode.IsString); err != nil {
		return "", err
	}
	v, err := d.dec.DecodeString()
	if err != nil {
		return "", d.fail(path, err)
	}
	return v, nil
}

func (d *metadataDecoder) boolean(path string, out *bool) error {
	if _, err := d.expect(path, "bool", isBool); err != nil {
		return err
	}
	v, err := d.dec.DecodeBool()
	if err != nil {
		return d.fail(path, err)
	}
	*out = v
	return nil
}

// uint32Value reads an integer that must fit in [0, 2^32).
func (d *metadataDecoder) uint32Value(path string) (uint32, error) {
	c, err := d.expect(path, "integer", isInt)
	if err != nil {
		return 0, err
	}
	if c == msgpcode.Uint64 {
		v, err := d.dec.DecodeUint64()
		if err != nil {
			return 0, d.fail(path, err)
		}
		if v > math.MaxUint32 {
			return 0, d.fail(path, fmt.Errorf("%d out of uint32 range", v))
		}
		return uint32(v), nil
	}
	v, err := d.dec.DecodeInt64()
	if err != nil {
		return 0, d.fail(path, err)
	}
	if v < 0 || v > math.MaxUint32 {
		return 0, d.fail(path, fmt.Errorf("%d out of uint32 range", v))
	}
	return uint32(v), nil
}

// pair reads a two-element array of uint32.
func (d *metadataDecoder) pair(path string) (uint32, uint32, error) {
	n, err := d.arrayLen(path)
	if err != nil {
		return 0, 0, err
	}
	if n != 2 {
		return 0, 0, d.fail(path, fmt.Errorf("want 2 elements, got %d", n))
	}
	lo, err := d.uint32Value(path + "[0]")
	if err != nil {
		return 0, 0, err
	}
	hi, err := d.uint32Value(path + "[1]")
	if err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

func (d *metadataDecoder) root(md *CodeObjectMetadata) error {
	n, err := d.mapLen("<root>")
	if err != nil {
		return err
	}

	havePipeline := false
	for i := 0; i < n; i++ {
		key, ok, err := d.key("<root>")
		if err != nil {
			return err
		}
		switch {
		case !ok:
			err = d.skip("<root>")
		case key == KeyVersion:
			md.Version.Major, md.Version.Minor, err = d.pair(key)
		case key == KeyPipelines:
			havePipeline, err = d.pipelines(&md.Pipeline)
		default:
			err = d.skip(key)
		}
		if err != nil {
			return err
		}
	}

	if !havePipeline {
		return d.fail(KeyPipelines, fmt.Errorf("no pipeline record"))
	}
	return nil
}

// pipelines decodes the first element of the pipeline list and skips the rest.
func (d *metadataDecoder) pipelines(p *PipelineMetadata) (bool, error) {
	n, err := d.arrayLen(KeyPipelines)
	if err != nil {
		return false, err
	}
	for i := 0; i < n; i++ {
		path := fmt.Sprintf("%s[%d]", KeyPipelines, i)
		if i > 0 {
			if err := d.skip(path); err != nil {
				return false, err
			}
			continue
		}
		if err := d.pipeline(path, p); err != nil {
			return false, err
		}
	}
	return n > 0, nil
}

func (d *metadataDecoder) pipeline(path string, p *PipelineMetadata) error {
	n, err := d.mapLen(path)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		key, ok, err := d.key(path)
		if err != nil {
			return err
		}
		kp := path + key
		switch {
		case !ok:
			err = d.skip(path)
		case key == KeyPipelineName:
			p.Name, err = d.str(kp)
			p.HasName = err == nil
		case key == KeyUsesViewportArrayIndex:
			err = d.boolean(kp, &p.Flags.UsesViewportArrayIndex)
		case key == KeyHardwareStages:
			err = d.hardwareStages(kp, &p.HardwareStages)
		default:
			err = d.skip(kp)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *metadataDecoder) hardwareStages(path string, stages *[HardwareStageCount]HardwareStageMetadata) error {
	n, err := d.mapLen(path)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		key, ok, err := d.key(path)
		if err != nil {
			return err
		}
		if !ok {
			if err := d.skip(path); err != nil {
				return err
			}
			continue
		}
		stage, known := stageForKey(key)
		if !known {
			if err := d.skip(path + key); err != nil {
				return err
			}
			continue
		}
		if err := d.hardwareStage(path+key, &stages[stage]); err != nil {
			return err
		}
	}
	return nil
}

func (d *metadataDecoder) hardwareStage(path string, s *HardwareStageMetadata) error {
	n, err := d.mapLen(path)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		key, ok, err := d.key(path)
		if err != nil {
			return err
		}
		kp := path + key
		switch {
		case !ok:
			err = d.skip(path)
		case key == KeyShaderHash:
			s.Hash.Lower, s.Hash.Upper, err = d.pair(kp)
		case key == KeyUsesUAVs:
			err = d.boolean(kp, &s.Flags.UsesUAVs)
		case key == KeyUsesROVs:
			err = d.boolean(kp, &s.Flags.UsesROVs)
		case key == KeyWritesUAVs:
			err = d.boolean(kp, &s.Flags.WritesUAVs)
		case key == KeyWritesDepth:
			err = d.boolean(kp, &s.Flags.WritesDepth)
		case key == KeyUsesAppendConsume:
			err = d.boolean(kp, &s.Flags.UsesAppendConsume)
		default:
			err = d.skip(kp)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

package event

import (
	"encoding/json"
	"maps"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// baseKeys are the wire names of the snapshot fields. They are reserved on
// every event.
var baseKeys = wireKeys(reflect.TypeOf(Base{}))

// Wire names of each extension, reserved only on events that carry it.
var (
	seekKeys     = wireKeys(reflect.TypeOf(SeekInfo{}))
	qualityKeys  = wireKeys(reflect.TypeOf(QualityChange{}))
	bufferKeys   = wireKeys(reflect.TypeOf(BufferInfo{}))
	errorKeys    = wireKeys(reflect.TypeOf(ErrorInfo{}))
	progressKeys = wireKeys(reflect.TypeOf(ProgressInfo{}))
)

func wireKeys(t reflect.Type) map[string]bool {
	keys := make(map[string]bool)
	for _, field := range reflect.VisibleFields(t) {
		if field.Anonymous || !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		keys[name] = true
	}
	return keys
}

// IsFixed reports whether key names a snapshot field, which no metadata
// key may shadow.
func IsFixed(key string) bool {
	return baseKeys[key]
}

// reserved returns the keys d writes itself: the snapshot plus the keys of
// the extensions it carries.
func (d Data) reserved() map[string]bool {
	keys := maps.Clone(baseKeys)
	for _, ext := range []struct {
		present bool
		keys    map[string]bool
	}{
		{d.SeekInfo != nil, seekKeys},
		{d.QualityChange != nil, qualityKeys},
		{d.BufferInfo != nil, bufferKeys},
		{d.ErrorInfo != nil, errorKeys},
		{d.ProgressInfo != nil, progressKeys},
	} {
		if ext.present {
			maps.Copy(keys, ext.keys)
		}
	}
	return keys
}

// plain has the fields of Data without its methods.
type plain Data

// MarshalJSON writes a flat object. Extra keys are written unless d writes
// the same key itself.
func (d Data) MarshalJSON() ([]byte, error) {
	fixed, err := json.Marshal(plain(d))
	if err != nil {
		return nil, err
	}

	if len(d.Extra) == 0 {
		return fixed, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(fixed, &fields); err != nil {
		return nil, err
	}

	reserved := d.reserved()
	for k, v := range d.Extra {
		if reserved[k] {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		fields[k] = raw
	}

	return json.Marshal(fields)
}

// UnmarshalJSON restores the snapshot and every extension whose keys are
// present. Other keys end up in Extra. VideoEvent narrows the extensions
// down to the one its type carries.
func (d *Data) UnmarshalJSON(b []byte) error {
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}

	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	*d = Data(p)
	d.collectExtra(fields)
	return nil
}

// collectExtra puts every key of fields that d does not write into Extra.
func (d *Data) collectExtra(fields map[string]any) {
	d.Extra = nil

	reserved := d.reserved()
	for k, v := range fields {
		if !reserved[k] {
			d.SetExtra(k, v)
		}
	}
}

// narrow keeps only the extension typ carries. Unknown types keep every
// extension that was decoded.
func (d *Data) narrow(typ Type) {
	if _, err := ParseType(string(typ)); err != nil {
		return
	}

	seek, quality, buffer, failure, progress := d.SeekInfo, d.QualityChange, d.BufferInfo, d.ErrorInfo, d.ProgressInfo
	d.SeekInfo, d.QualityChange, d.BufferInfo, d.ErrorInfo, d.ProgressInfo = nil, nil, nil, nil, nil

	switch typ {
	case Seek:
		d.SeekInfo = seek
	case QualityChanged:
		d.QualityChange = quality
	case BufferStart, BufferEnd:
		d.BufferInfo = buffer
	case Error:
		d.ErrorInfo = failure
	case Progress:
		d.ProgressInfo = progress
	}
}

// UnmarshalJSON decodes the event and drops extensions its type does not
// carry, so metadata sharing a key with some extension stays metadata.
func (e *VideoEvent) UnmarshalJSON(b []byte) error {
	var wire struct {
		Type Type            `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}

	e.Type = wire.Type
	e.Data = Data{}
	if len(wire.Data) == 0 || string(wire.Data) == "null" {
		return nil
	}

	var fields map[string]any
	if err := json.Unmarshal(wire.Data, &fields); err != nil {
		return err
	}
	if err := json.Unmarshal(wire.Data, &e.Data); err != nil {
		return err
	}

	e.Data.narrow(e.Type)
	e.Data.collectExtra(fields)
	return nil
}

// SetExtra stores a metadata or custom key.
func (d *Data) SetExtra(key string, value any) {
	if d.Extra == nil {
		d.Extra = make(map[string]any)
	}
	d.Extra[key] = value
}

// Merge copies metadata into Extra. Existing keys are overwritten.
func (d *Data) Merge(metadata map[string]any) {
	for k, v := range metadata {
		d.SetExtra(k, v)
	}
}

// ApplyCustom shallow-merges caller data over the event. Keys naming a
// snapshot field replace that field when the value converts to its type;
// everything else is kept in Extra.
func (d *Data) ApplyCustom(custom map[string]any) {
	for k, v := range custom {
		if baseKeys[k] && decodeBase(&d.Base, k, v) == nil {
			continue
		}
		d.SetExtra(k, v)
	}
}

func decodeBase(base *Base, key string, value any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           base,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(map[string]any{key: value})
}

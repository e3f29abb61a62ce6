package zcjson

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rawbytedev/zcstring"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Options configures a Decoder.
type Options struct {
	// CopyStrings gives every decoded string its own buffer so the source
	// document can be released while the decoded value lives on.
	CopyStrings bool
	// Logger receives a debug summary per document. Nil disables logging.
	Logger *zap.Logger
}

// Stats counts the work done by a Decoder since it was created.
type Stats struct {
	Decodes  uint64
	Failures uint64
	Borrowed uint64 // strings that share the source buffer
	Owned    uint64 // strings that had to be allocated
}

// Decoder maps JSON documents held in a zcstring.View onto Go values.
// String values free of escape sequences are returned as Views into the
// document, everything else is allocated.
//
// A Decoder is safe for concurrent use. Each call runs with its own
// zcstring.Source unless the context passed to UnmarshalContext carries one.
type Decoder struct {
	Opts Options
	log  *zap.Logger

	mu    sync.RWMutex
	plans map[reflect.Type]*structPlan

	decodes  atomic.Uint64
	failures atomic.Uint64
	borrowed atomic.Uint64
	owned    atomic.Uint64

	stringsDesc *prometheus.Desc
	decodesDesc *prometheus.Desc
}

// NewDecoder returns a Decoder configured by opts.
func NewDecoder(opts Options) *Decoder {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Decoder{
		Opts:  opts,
		log:   log.Named("zcjson"),
		plans: make(map[reflect.Type]*structPlan),
		stringsDesc: prometheus.NewDesc(
			"zcjson_strings_total",
			"Strings decoded, by whether they share the source buffer.",
			[]string{"kind"}, nil,
		),
		decodesDesc: prometheus.NewDesc(
			"zcjson_decodes_total",
			"Documents decoded, by result.",
			[]string{"result"}, nil,
		),
	}
}

var defaultDecoder = NewDecoder(Options{})

// Unmarshal decodes src into v with a default Decoder.
func Unmarshal(src zcstring.View, v any) error {
	return defaultDecoder.Unmarshal(src, v)
}

// Unmarshal decodes the JSON document src into the value pointed to by v.
func (d *Decoder) Unmarshal(src zcstring.View, v any) error {
	return d.UnmarshalContext(context.Background(), src, v)
}

// UnmarshalContext is Unmarshal resolving strings through the Source
// carried by ctx, if any. The Source gets src installed for the duration of
// the call and its previous View back afterwards.
func (d *Decoder) UnmarshalContext(ctx context.Context, src zcstring.View, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNotPointer
	}
	if !gjson.Valid(src.String()) {
		return d.fail(src, fmt.Errorf("%w: %d byte document", ErrInvalidJSON, src.Len()))
	}

	s := zcstring.FromContext(ctx)
	if s == nil {
		s = zcstring.NewSource()
	}
	st := &decodeState{d: d, src: s, doc: src}
	err := s.Run(src, func(doc zcstring.View) error {
		return st.value(gjson.Parse(doc.String()), rv.Elem(), "")
	})
	if err != nil {
		return d.fail(src, err)
	}

	d.decodes.Add(1)
	d.borrowed.Add(st.borrowed)
	d.owned.Add(st.owned)
	d.log.Debug("decoded document",
		zap.Int("bytes", src.Len()),
		zap.Uint64("borrowed", st.borrowed),
		zap.Uint64("owned", st.owned),
	)
	return nil
}

func (d *Decoder) fail(src zcstring.View, err error) error {
	d.failures.Add(1)
	d.log.Warn("decode failed", zap.Int("bytes", src.Len()), zap.Error(err))
	return err
}

// Stats returns a snapshot of the decoder counters.
func (d *Decoder) Stats() Stats {
	return Stats{
		Decodes:  d.decodes.Load(),
		Failures: d.failures.Load(),
		Borrowed: d.borrowed.Load(),
		Owned:    d.owned.Load(),
	}
}

// Describe implements prometheus.Collector.
func (d *Decoder) Describe(ch chan<- *prometheus.Desc) {
	ch <- d.stringsDesc
	ch <- d.decodesDesc
}

// Collect implements prometheus.Collector.
func (d *Decoder) Collect(ch chan<- prometheus.Metric) {
	s := d.Stats()
	ch <- prometheus.MustNewConstMetric(d.stringsDesc, prometheus.CounterValue, float64(s.Borrowed), "borrowed")
	ch <- prometheus.MustNewConstMetric(d.stringsDesc, prometheus.CounterValue, float64(s.Owned), "owned")
	ch <- prometheus.MustNewConstMetric(d.decodesDesc, prometheus.CounterValue, float64(s.Decodes), "ok")
	ch <- prometheus.MustNewConstMetric(d.decodesDesc, prometheus.CounterValue, float64(s.Failures), "error")
}

func (d *Decoder) getPlan(t reflect.Type) *structPlan {
	d.mu.RLock()
	if plan, ok := d.plans[t]; ok {
		d.mu.RUnlock()
		return plan
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if plan, ok := d.plans[t]; ok {
		return plan
	}
	plan := buildPlan(t)
	d.plans[t] = plan
	return plan
}

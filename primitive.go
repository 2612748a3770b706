package slidescene

// Primitive is one fully resolved drawing instruction: placement in
// page units plus every visual attribute the output format needs. No
// field requires further interpretation beyond unit mapping.
type Primitive struct {
	Kind    Kind                `json:"kind"`
	Name    string              `json:"name,omitempty"`
	Metrics SlideMetrics        `json:"metrics"`
	Paint   PaintSet            `json:"paint"`
	Font    FontDescriptor      `json:"font"`
	Align   HorizontalAlignment `json:"align"`

	// Line is set only for linear primitives, which carry endpoint
	// geometry instead of meaningful metrics.
	Line *LineEndpoints `json:"line,omitempty"`

	// HasStroke marks a stroke above the visibility threshold.
	// StrokeEMU is the converted width, StrokeWeight the same width in
	// the format's line-weight unit.
	HasStroke    bool      `json:"hasStroke"`
	StrokeEMU    int64     `json:"strokeEmu,omitempty"`
	StrokeWeight float64   `json:"strokeWeight,omitempty"`
	LineStyle    LineStyle `json:"lineStyle"`

	// Radius is the normalized corner-radius ratio for box shapes.
	Radius float64 `json:"radius,omitempty"`

	Text string `json:"text,omitempty"`
	Href string `json:"href,omitempty"`
}

// Emitter turns resolved primitives into output-document artifacts.
// Implementations live outside this library; the resolver only
// guarantees that every primitive it hands over is non-degenerate and
// fully resolved.
type Emitter interface {
	AddShape(p Primitive) error
	AddText(p Primitive) error
	AddLine(p Primitive) error
	AddImage(p Primitive) error
}

// Collector is an Emitter that accumulates primitives in document
// order.
type Collector struct {
	Primitives []Primitive
}

func (c *Collector) add(p Primitive) error {
	c.Primitives = append(c.Primitives, p)
	return nil
}

func (c *Collector) AddShape(p Primitive) error { return c.add(p) }
func (c *Collector) AddText(p Primitive) error  { return c.add(p) }
func (c *Collector) AddLine(p Primitive) error  { return c.add(p) }
func (c *Collector) AddImage(p Primitive) error { return c.add(p) }

// Resolver drives a full resolution pass: geometry and style per
// element, merged into primitives and dispatched to an emitter.
type Resolver struct {
	Ctx    *SlideContext
	Styles *StyleResolver
}

// NewResolver creates a resolver for one page context. A nil style
// resolver gets the built-in sampler.
func NewResolver(ctx *SlideContext, styles *StyleResolver) *Resolver {
	if styles == nil {
		styles = NewStyleResolver(nil)
	}
	return &Resolver{Ctx: ctx, Styles: styles}
}

// ResolveScene flattens the scene and emits every drawable element.
// Elements that resolve to nothing (zero area, missing line endpoints)
// are skipped silently; a malformed element never aborts the batch.
// The only errors that surface come from the emitter itself.
func (r *Resolver) ResolveScene(sc *Scene, filter NodeFilter, em Emitter) error {
	for _, fe := range sc.Flatten(filter) {
		if err := r.resolveOne(fe, em); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) resolveOne(fe FlatElement, em Emitter) error {
	if fe.Kind == KindLine {
		x1, y1, x2, y2 := fe.lineEndpoints()
		line, ok := ResolveLinePoints(x1, y1, x2, y2, fe.Transform, fe.Rect.Space, r.Ctx)
		if !ok {
			return nil
		}
		p := r.newPrimitive(fe)
		p.Line = &line
		return em.AddLine(p)
	}

	metrics := ResolveElementMetrics(fe.Element, fe.Transform, r.Ctx)
	if metrics.IsEmpty() {
		return nil
	}

	p := r.newPrimitive(fe)
	p.Metrics = metrics

	switch fe.Kind {
	case KindText:
		p.Metrics = InsetForText(metrics, fe.Style)
		return em.AddText(p)
	case KindImage:
		return em.AddImage(p)
	default:
		return em.AddShape(p)
	}
}

// newPrimitive fills the style-derived fields shared by every kind.
// Ancestor opacity from the flattening scales the whole paint set.
func (r *Resolver) newPrimitive(fe FlatElement) Primitive {
	p := Primitive{
		Kind:      fe.Kind,
		Name:      fe.Name,
		Paint:     r.Styles.ResolveColors(fe.Kind, fe.Style).Scaled(fe.Opacity),
		Font:      r.Styles.ResolveFont(fe.Style),
		Align:     r.Styles.ResolveAlign(fe.Style),
		LineStyle: r.Styles.ResolveDash(fe.Style),
		Radius:    ResolveRadius(cssPixels(fe.Style.BorderRadius)),
		Text:      fe.Text,
		Href:      fe.Href,
	}
	if emu, ok := r.Styles.ResolveStrokeWidth(fe.Style); ok {
		p.HasStroke = true
		p.StrokeEMU = emu
		p.StrokeWeight = StrokeWidthPoints(emu)
	}
	return p
}

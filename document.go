// Package loom is a retained-mode UI document core. A Document owns a
// node tree built from declarative descriptions, solves geometry
// through a pluggable layout engine, and turns raw pointer and key
// input into semantic events on the nodes.
//
// The package wires the pieces together; the work lives in the
// subpackages: dom holds the tree, reconciler, hit tester, dispatcher
// and selection, style resolves class strings, text measures and maps
// carets, imgload decodes image sources off the UI thread, and flow is
// the reference layout engine.
//
// Everything except image decoding runs on the caller's goroutine. The
// caller drives frames: mutate state, forward input, call Step, paint
// from the resulting geometry.
package loom

import (
	"log"

	"github.com/loomui/loom/dom"
	"github.com/loomui/loom/flow"
	"github.com/loomui/loom/imgload"
	"github.com/loomui/loom/style"
	"github.com/loomui/loom/text"
)

// Document is one UI tree instance with its layout, interaction and
// selection state. Multiple documents are independent; nothing is
// shared between them.
type Document struct {
	cfg Config

	tree       *dom.Tree
	selection  *dom.Selection
	dispatcher *dom.Dispatcher
	adapter    *dom.Adapter

	resolver style.Resolver
	loader   *imgload.Loader
}

// Option overrides one of a Document's collaborators.
type Option func(*options)

type options struct {
	engine   dom.LayoutEngine
	measurer dom.TextMeasurer
	resolver style.Resolver
	loader   *imgload.Loader
}

// WithEngine replaces the flow engine with an external layout engine.
func WithEngine(e dom.LayoutEngine) Option {
	return func(o *options) { o.engine = e }
}

// WithMeasurer replaces the shaping text measurer.
func WithMeasurer(m dom.TextMeasurer) Option {
	return func(o *options) { o.measurer = m }
}

// WithResolver replaces the stylesheet resolver.
func WithResolver(r style.Resolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithLoader replaces the image loader.
func WithLoader(l *imgload.Loader) Option {
	return func(o *options) { o.loader = l }
}

// New assembles a document. Without options it uses the flow layout
// engine, a shaping measurer loading the fonts named in the config, a
// stylesheet resolver reading cfg.Stylesheet, and a fresh image
// loader.
func New(cfg Config, opts ...Option) (*Document, error) {
	cfg = cfg.withDefaults()

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.engine == nil {
		o.engine = flow.New()
	}
	if o.loader == nil {
		o.loader = imgload.NewLoader()
	}
	if o.measurer == nil {
		coll := text.NewCollection()
		for family, path := range cfg.Text.Fonts {
			if err := coll.LoadFile(family, path); err != nil {
				return nil, err
			}
		}
		o.measurer = text.NewMeasurer(coll)
	}
	if o.resolver == nil {
		if cfg.Stylesheet != "" {
			sheet, err := style.LoadSheet(cfg.Stylesheet)
			if err != nil {
				return nil, err
			}
			o.resolver = sheet
		} else {
			o.resolver = style.NewSheet()
		}
	}

	tree := dom.NewTree()
	sel := dom.NewSelection(tree, o.measurer)
	disp := dom.NewDispatcher(tree, sel, cfg.Interaction.DragThresholdPx)
	adapter := dom.NewAdapter(tree, o.engine, o.measurer)

	return &Document{
		cfg:        cfg,
		tree:       tree,
		selection:  sel,
		dispatcher: disp,
		adapter:    adapter,
		resolver:   o.resolver,
		loader:     o.loader,
	}, nil
}

// Tree returns the document's node tree.
func (d *Document) Tree() *dom.Tree { return d.tree }

// Selection returns the text selection manager.
func (d *Document) Selection() *dom.Selection { return d.selection }

// Dispatcher returns the input dispatcher.
func (d *Document) Dispatcher() *dom.Dispatcher { return d.dispatcher }

// Loader returns the image loader.
func (d *Document) Loader() *imgload.Loader { return d.loader }

// Reconcile transforms the tree to match the description. Calls made
// from inside an event handler are validated now and applied by the
// next Step, before layout.
func (d *Document) Reconcile(desc dom.Description) (dom.ReconcileStats, error) {
	return d.tree.Reconcile(desc)
}

// Step advances the document one frame:
//
//  1. finished image decodes are applied, so a size arriving this
//     frame participates in this frame's layout;
//  2. a reconcile deferred from an event handler is applied;
//  3. newly needed image loads are requested;
//  4. styles re-resolve, picking up class and interaction-state
//     changes;
//  5. geometry solves if anything changed, firing onlayout, or node
//     rects refresh when only scroll offsets moved.
//
// Step is cheap when nothing changed.
func (d *Document) Step(viewport dom.Size) {
	for _, res := range d.loader.Drain() {
		targets := d.tree.NodesWithSrc(res.Src)
		// No targets means every node showing the source was destroyed
		// or re-pointed while the decode ran; the result is dropped.
		for _, id := range targets {
			if res.Err != nil {
				log.Printf("image %q: %v", res.Src, res.Err)
				d.tree.SetImageError(id, res.Err)
				continue
			}
			d.tree.SetImageSize(id, float32(res.Width), float32(res.Height))
		}
	}

	d.tree.FlushDeferred()

	for _, id := range d.tree.TakeImageRequests() {
		if n := d.tree.Node(id); n != nil {
			d.loader.Request(n.Src())
		}
	}

	d.tree.Restyle(d.resolver)

	d.adapter.SetViewport(viewport)
	switch {
	case d.tree.NeedsSolve():
		d.adapter.Solve()
	case d.tree.NeedsScrollRefresh():
		d.adapter.RefreshScroll()
	}
}

// PointerMove forwards pointer motion to the dispatcher.
func (d *Document) PointerMove(x, y float32, mods dom.Modifiers) {
	d.dispatcher.PointerMove(x, y, mods)
}

// PointerDown forwards a button press to the dispatcher.
func (d *Document) PointerDown(x, y float32, button dom.MouseButton, mods dom.Modifiers) {
	d.dispatcher.PointerDown(x, y, button, mods)
}

// PointerUp forwards a button release to the dispatcher.
func (d *Document) PointerUp(x, y float32, button dom.MouseButton, mods dom.Modifiers) {
	d.dispatcher.PointerUp(x, y, button, mods)
}

// KeyDown forwards a key press to the dispatcher. repeat marks
// platform auto-repeat.
func (d *Document) KeyDown(key string, r rune, mods dom.Modifiers, repeat bool) {
	d.dispatcher.KeyDown(key, r, mods, repeat)
}

// KeyUp forwards a key release to the dispatcher.
func (d *Document) KeyUp(key string, r rune, mods dom.Modifiers) {
	d.dispatcher.KeyUp(key, r, mods)
}

// TextInput forwards committed text to the dispatcher.
func (d *Document) TextInput(s string) {
	d.dispatcher.TextInput(s)
}

// Scroll forwards pixel wheel deltas at the pointer position.
func (d *Document) Scroll(x, y, dx, dy float32, mods dom.Modifiers) {
	d.dispatcher.Scroll(x, y, dx, dy, mods)
}

// ScrollLines forwards line-based wheel deltas, scaled by the
// configured line height.
func (d *Document) ScrollLines(x, y, lines float32, mods dom.Modifiers) {
	d.dispatcher.Scroll(x, y, 0, lines*d.cfg.Interaction.ScrollLinePx, mods)
}

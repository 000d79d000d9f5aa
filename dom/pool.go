package dom

import "sync"

// Pointer and key events fire at input rates, so they are pooled. The
// dispatcher acquires an event, delivers it, and releases it when the
// dispatch returns; handlers must copy anything they need to keep.

var pointerEventPool = sync.Pool{
	New: func() any { return &PointerEvent{} },
}

var keyEventPool = sync.Pool{
	New: func() any { return &KeyEvent{} },
}

func acquirePointerEvent(t EventType, target NodeID, x, y, dx, dy float32, button MouseButton, mods Modifiers) *PointerEvent {
	ev := pointerEventPool.Get().(*PointerEvent)
	ev.eventBase = eventBase{eventType: t, target: target}
	ev.X = x
	ev.Y = y
	ev.DeltaX = dx
	ev.DeltaY = dy
	ev.Button = button
	ev.Mods = mods
	return ev
}

func releasePointerEvent(ev *PointerEvent) {
	ev.eventBase = eventBase{}
	ev.X = 0
	ev.Y = 0
	ev.DeltaX = 0
	ev.DeltaY = 0
	ev.Button = ButtonNone
	ev.Mods = 0
	pointerEventPool.Put(ev)
}

func acquireKeyEvent(t EventType, target NodeID, key string, r rune, mods Modifiers, repeat bool) *KeyEvent {
	ev := keyEventPool.Get().(*KeyEvent)
	ev.eventBase = eventBase{eventType: t, target: target}
	ev.Key = key
	ev.Rune = r
	ev.Mods = mods
	ev.Repeat = repeat
	return ev
}

func releaseKeyEvent(ev *KeyEvent) {
	ev.eventBase = eventBase{}
	ev.Key = ""
	ev.Rune = 0
	ev.Mods = 0
	ev.Repeat = false
	keyEventPool.Put(ev)
}

package core

import (
	"fmt"

	"pkt.systems/gamelaunch/schema"
)

// MenuFrame is a static menu built from a MenuDefinition plus optional
// bound template arguments (the selected game when entered through a
// game menu).
type MenuFrame struct {
	lines  []string
	banner []string
	keys   map[rune]schema.MenuItem
	args   map[string]any
}

// NewMenuFrame expands generators, renders item titles, and builds the
// key map. Items whose title template fails to render are shown raw
// rather than dropped.
func NewMenuFrame(s *Session, def schema.MenuDefinition, args map[string]any) *MenuFrame {
	frame := &MenuFrame{
		banner: def.Banner,
		keys:   make(map[rune]schema.MenuItem),
		args:   args,
	}
	for _, entry := range def.Items {
		if entry.IsGenerator() {
			for _, item := range GenerateItems(s, entry.Generator) {
				frame.addItem(s, item)
			}
			continue
		}
		frame.addItem(s, &entry.Item)
	}
	return frame
}

// addItem appends one menu line; nil marks a spacer.
func (f *MenuFrame) addItem(s *Session, item *schema.MenuItem) {
	if item == nil {
		f.lines = append(f.lines, "")
		return
	}
	title, err := s.RenderTemplate(item.Title, f.args)
	if err != nil {
		title = item.Title
	}
	f.keys[rune(item.Key[0])] = *item
	f.lines = append(f.lines, fmt.Sprintf("%s) %s", item.Key, title))
}

func (f *MenuFrame) Render(*Session) []string {
	if len(f.banner) == 0 {
		return f.lines
	}
	lines := make([]string, 0, len(f.banner)+1+len(f.lines))
	lines = append(lines, f.banner...)
	lines = append(lines, "")
	return append(lines, f.lines...)
}

// OnKey resolves the key to an item and hands its action to the choice
// runner. Keys without an item are ignored: only valid choices count.
func (f *MenuFrame) OnKey(s *Session, k Key) Effect {
	if k.Kind == KeyCtrlD {
		return Pop()
	}
	if k.Kind != KeyRune {
		return None()
	}
	item, ok := f.keys[k.Rune]
	if !ok {
		return None()
	}
	return runChoice(s, item.Action, f.args)
}

// GenerateItems expands a named generator into menu items; nil entries
// are spacers. The games generator brackets the game list with spacers,
// so an empty game list yields exactly two spacers.
func GenerateItems(s *Session, name string) []*schema.MenuItem {
	switch name {
	case schema.GeneratorBlank:
		return []*schema.MenuItem{nil}
	case schema.GeneratorGames:
		items := []*schema.MenuItem{nil}
		for _, game := range s.Games() {
			items = append(items, &schema.MenuItem{
				Key:    string(rune('1' + game.Index)),
				Title:  game.Name,
				Action: fmt.Sprintf("game %d", game.Index),
			})
		}
		return append(items, nil)
	default:
		return nil
	}
}

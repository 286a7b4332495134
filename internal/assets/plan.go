package assets

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"

	"github.com/angelmondragon/siteadmin-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/siteadmin-backend/pkg/errors"
)

// Slot binds one URL-valued record field to its upload rules.
type Slot struct {
	// Field is the multipart form field carrying a replacement file.
	Field  string
	Folder string
	// Name is the file base name; a timestamp and extension are appended.
	Name string
	Kind enums.AssetKind
	URL  *string
}

// ListSlot describes an ordered list of URLs such as a product gallery.
type ListSlot struct {
	Field  string
	Folder string
	Name   string
	Kind   enums.AssetKind
}

// Plan tracks the object store side effects of one record save.
//
// Files are uploaded while staging. After the record write, Commit removes the
// files the record no longer references; after a failed write, Discard removes
// the files uploaded for it. Neither touches a file the previous record state
// still points at.
type Plan struct {
	m        *Manager
	uploaded []string
	// previous holds paths referenced before the save; they survive Discard.
	previous map[string]struct{}
	// obsolete holds paths that Commit deletes.
	obsolete []string
	changed  bool
	done     bool
}

// Begin starts an empty plan.
func (m *Manager) Begin() *Plan {
	return &Plan{m: m, previous: map[string]struct{}{}}
}

// Changed reports whether staging touched any slot.
func (p *Plan) Changed() bool {
	return p.changed
}

// Uploaded returns the object paths written by this plan.
func (p *Plan) Uploaded() []string {
	return append([]string(nil), p.uploaded...)
}

// Stage applies file selections and explicit clears to slots. A slot with a
// file gets a fresh upload; a slot named in clear is emptied; any other slot
// keeps its URL. The slot URL pointers are updated in place.
func (p *Plan) Stage(ctx context.Context, slots []Slot, files map[string]File, clear map[string]bool) error {
	for _, slot := range slots {
		if slot.URL == nil {
			return fmt.Errorf("slot %q has no target field", slot.Field)
		}
		oldURL := *slot.URL

		if f, ok := files[slot.Field]; ok {
			prefix := path.Join(slot.Folder, fmt.Sprintf("%s-%d", slot.Name, p.m.stamp()))
			objectPath, url, err := p.m.upload(ctx, "", prefix, slot.Kind, f, false)
			if err != nil {
				return withField(err, slot.Field)
			}
			p.uploaded = append(p.uploaded, objectPath)
			p.replace(oldURL, objectPath)
			*slot.URL = url
			p.changed = true
			continue
		}

		if clear[slot.Field] && oldURL != "" {
			p.replace(oldURL, "")
			*slot.URL = ""
			p.changed = true
		}
	}
	return nil
}

// StageList rebuilds an ordered URL list: the subset of keep found in current
// (in keep order, without duplicates) followed by one upload per file. URLs in
// current that are not kept are removed on Commit.
func (p *Plan) StageList(ctx context.Context, slot ListSlot, current, keep []string, files []File) ([]string, error) {
	inCurrent := make(map[string]struct{}, len(current))
	for _, u := range current {
		inCurrent[u] = struct{}{}
		if objectPath, ok := p.m.PathFromURL(u); ok {
			p.previous[objectPath] = struct{}{}
		}
	}

	result := make([]string, 0, len(keep)+len(files))
	kept := make(map[string]struct{}, len(keep))
	for _, u := range keep {
		if _, ok := inCurrent[u]; !ok {
			continue
		}
		if _, dup := kept[u]; dup {
			continue
		}
		kept[u] = struct{}{}
		result = append(result, u)
	}

	for _, u := range current {
		if _, ok := kept[u]; ok {
			continue
		}
		if objectPath, ok := p.m.PathFromURL(u); ok {
			p.obsolete = append(p.obsolete, objectPath)
		}
		p.changed = true
	}

	for _, f := range files {
		prefix := path.Join(slot.Folder, fmt.Sprintf("%s-%s", slot.Name, uuid.NewString()))
		objectPath, url, err := p.m.upload(ctx, "", prefix, slot.Kind, f, false)
		if err != nil {
			return nil, withField(err, slot.Field)
		}
		p.uploaded = append(p.uploaded, objectPath)
		result = append(result, url)
		p.changed = true
	}

	if len(result) != len(current) {
		p.changed = true
	}
	return result, nil
}

func (p *Plan) replace(oldURL, newPath string) {
	oldPath, ok := p.m.PathFromURL(oldURL)
	if !ok {
		return
	}
	p.previous[oldPath] = struct{}{}
	if oldPath != newPath {
		p.obsolete = append(p.obsolete, oldPath)
	}
}

// Commit removes files the saved record no longer references. It runs on a
// context detached from ctx's cancellation and is a no-op after the first call.
func (p *Plan) Commit(ctx context.Context) {
	if p.done {
		return
	}
	p.done = true
	ctx = context.WithoutCancel(ctx)

	uploaded := make(map[string]struct{}, len(p.uploaded))
	for _, u := range p.uploaded {
		uploaded[u] = struct{}{}
	}
	for _, objectPath := range dedupe(p.obsolete) {
		if _, fresh := uploaded[objectPath]; fresh {
			continue
		}
		p.m.Remove(ctx, objectPath)
	}
}

// Discard removes the files uploaded for a save that did not persist, except
// any path the previous record state still references.
func (p *Plan) Discard(ctx context.Context) {
	if p.done {
		return
	}
	p.done = true
	ctx = context.WithoutCancel(ctx)

	for _, objectPath := range dedupe(p.uploaded) {
		if _, referenced := p.previous[objectPath]; referenced {
			continue
		}
		p.m.Remove(ctx, objectPath)
	}
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func withField(err error, field string) error {
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeValidation && typed.Details() == nil {
		return typed.WithDetails(map[string]string{field: typed.Message()})
	}
	return err
}

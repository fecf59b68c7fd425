/*
Package folder layers a fixed three level hierarchy over the feature and label
stores: folders hold subfolders, subfolders hold items. A folder is an empty
feature collection stored under a reserved content id; subfolder membership is
a positive label between the folder and the item, carrying the subfolder name
as the folder side's subtopic. Folders may be empty, subfolders exist only
through their items.

Identifiers follow the MediaWiki convention: the name "The Id" and the
identifier "The_Id" convert into each other, and identifiers may not contain
spaces or slashes.
*/
package folder

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/simdex/simdex/label"
	"github.com/simdex/simdex/store"
)

// DefaultAnnotator owns folders created without a user.
const DefaultAnnotator = "unknown"

const topicPrefix = "topic"

var (
	// ErrInvalidID is returned for folder ids containing spaces or slashes.
	ErrInvalidID = errors.New("folder ids cannot contain spaces or '/' characters")
	// ErrFolderNotFound is returned when the named folder was never added.
	ErrFolderNotFound = errors.New("folder not found")
)

// Item is one member of a subfolder.
type Item struct {
	ContentID  string `json:"content_id"`
	SubtopicID string `json:"subtopic_id,omitempty"`
}

// Parent names the subfolder a content id was found in.
type Parent struct {
	FolderID    string `json:"folder_id"`
	SubfolderID string `json:"subfolder_id"`
}

// Folders reads and writes the hierarchy. Folders cannot be deleted or
// renamed.
type Folders struct {
	Store  store.Store
	Labels label.LabelStore
}

// IDToName converts a folder identifier to its display name.
func IDToName(id string) string {
	return strings.ReplaceAll(id, "_", " ")
}

// NameToID converts a display name to a folder identifier.
func NameToID(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

func validateID(id string) error {
	if id == "" || strings.ContainsAny(id, " /") {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// contentID wraps an annotator and folder id into the reserved id the folder
// collection is stored under.
func contentID(annotator, folderID string) string {
	return topicPrefix + "|" + url.PathEscape(annotator) + "|" + url.PathEscape(folderID)
}

func splitContentID(cid string) (annotator, folderID string, ok bool) {
	parts := strings.Split(cid, "|")
	if len(parts) != 3 || parts[0] != topicPrefix {
		return "", "", false
	}
	annotator, err1 := url.PathUnescape(parts[1])
	folderID, err2 := url.PathUnescape(parts[2])
	if err1 != nil || err2 != nil {
		return "", "", false
	}
	return annotator, folderID, true
}

func orDefault(annotator string) string {
	if annotator == "" {
		return DefaultAnnotator
	}
	return annotator
}

// AddFolder creates an empty folder owned by the annotator.
func (f *Folders) AddFolder(ctx context.Context, folderID, annotator string) error {
	if err := validateID(folderID); err != nil {
		return err
	}
	return f.Store.Put(ctx, contentID(orDefault(annotator), folderID), store.FeatureCollection{})
}

// Folders lists the folder ids owned by the annotator, sorted.
func (f *Folders) Folders(ctx context.Context, annotator string) ([]string, error) {
	prefix := topicPrefix + "|" + url.PathEscape(orDefault(annotator)) + "|"
	cids, err := f.Store.ScanPrefixIDs(ctx, prefix)
	if err != nil {
		return nil, err
	}
	folders := []string{}
	for _, cid := range cids {
		if _, folderID, ok := splitContentID(cid); ok {
			folders = append(folders, folderID)
		}
	}
	sort.Strings(folders)
	return folders, nil
}

// Subfolders lists the subfolder ids of a folder, sorted. A subfolder exists
// as long as it has at least one item.
func (f *Folders) Subfolders(ctx context.Context, folderID, annotator string) ([]string, error) {
	if err := validateID(folderID); err != nil {
		return nil, err
	}
	cid := contentID(orDefault(annotator), folderID)
	if err := f.requireFolder(ctx, cid, folderID); err != nil {
		return nil, err
	}
	direct, err := f.Labels.DirectlyConnected(ctx, cid)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	subfolders := []string{}
	for _, l := range direct {
		sub := l.SubtopicFor(cid)
		if sub == "" || seen[sub] {
			continue
		}
		seen[sub] = true
		subfolders = append(subfolders, sub)
	}
	sort.Strings(subfolders)
	return subfolders, nil
}

// AddItem places a content id (optionally narrowed to a subtopic) into a
// subfolder, creating the subfolder as a side effect. The folder itself must
// already exist.
func (f *Folders) AddItem(ctx context.Context, folderID, subfolderID, itemCID, subtopicID, annotator string) error {
	if err := validateID(folderID); err != nil {
		return err
	}
	if err := validateID(subfolderID); err != nil {
		return err
	}
	ann := orDefault(annotator)
	cid := contentID(ann, folderID)
	if err := f.requireFolder(ctx, cid, folderID); err != nil {
		return err
	}
	return f.Labels.Put(ctx, label.NewWithSubtopics(cid, itemCID, subfolderID, subtopicID, ann, label.Positive))
}

// Items lists the members of a subfolder.
func (f *Folders) Items(ctx context.Context, folderID, subfolderID, annotator string) ([]Item, error) {
	if err := validateID(folderID); err != nil {
		return nil, err
	}
	if err := validateID(subfolderID); err != nil {
		return nil, err
	}
	cid := contentID(orDefault(annotator), folderID)
	if err := f.requireFolder(ctx, cid, folderID); err != nil {
		return nil, err
	}
	direct, err := f.Labels.DirectlyConnected(ctx, cid)
	if err != nil {
		return nil, err
	}
	items := []Item{}
	for _, l := range direct {
		if l.Value != label.Positive || l.SubtopicFor(cid) != subfolderID {
			continue
		}
		other := l.Other(cid)
		items = append(items, Item{ContentID: other, SubtopicID: l.SubtopicFor(other)})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ContentID < items[j].ContentID })
	return items, nil
}

// ParentSubfolders lists the subfolders a content id appears in, restricted
// to the annotator.
func (f *Folders) ParentSubfolders(ctx context.Context, itemCID, annotator string) ([]Parent, error) {
	ann := orDefault(annotator)
	direct, err := f.Labels.DirectlyConnected(ctx, itemCID)
	if err != nil {
		return nil, err
	}
	parents := []Parent{}
	for _, l := range direct {
		folderCID := l.Other(itemCID)
		folderAnn, folderID, ok := splitContentID(folderCID)
		if !ok || folderAnn != ann {
			continue
		}
		parents = append(parents, Parent{FolderID: folderID, SubfolderID: l.SubtopicFor(folderCID)})
	}
	sort.Slice(parents, func(i, j int) bool {
		if parents[i].FolderID != parents[j].FolderID {
			return parents[i].FolderID < parents[j].FolderID
		}
		return parents[i].SubfolderID < parents[j].SubfolderID
	})
	return parents, nil
}

func (f *Folders) requireFolder(ctx context.Context, cid, folderID string) error {
	_, err := f.Store.Get(ctx, cid)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrFolderNotFound, folderID)
	}
	return err
}

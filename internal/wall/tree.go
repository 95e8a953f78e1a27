package wall

import (
	"path/filepath"
)

// Node is an entry placed in a flattened tree.
type Node struct {
	Entry
	Rel      string // Slash-separated path relative to the tree root
	Depth    int
	Expanded bool
}

// Tree flattens root into display order, descending into the folders for
// which expanded returns true.
func (w *Wall) Tree(root string, expanded func(rel string) bool) ([]Node, error) {
	var nodes []Node
	if err := w.walk(root, "", 0, expanded, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (w *Wall) walk(dir, rel string, depth int, expanded func(string) bool, nodes *[]Node) error {
	entries, err := w.List(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		node := Node{
			Entry: entry,
			Rel:   filepath.ToSlash(filepath.Join(rel, entry.Name)),
			Depth: depth,
		}
		node.Expanded = entry.IsDir && expanded != nil && expanded(node.Rel)
		*nodes = append(*nodes, node)

		if node.Expanded {
			if err := w.walk(entry.Path, node.Rel, depth+1, expanded, nodes); err != nil {
				return err
			}
		}
	}
	return nil
}

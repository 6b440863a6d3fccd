package inspect

import (
	"fmt"
	"strings"

	"github.com/awcullen/opcua/ua"

	"github.com/infomodel/infomodel-go/pkg/model"
)

// ResolveChild returns the child of parent reached by a forward
// hierarchical reference whose browse name matches name (case-insensitive).
func ResolveChild(space *model.AddressSpace, parent ua.NodeID, name string) (ua.NodeID, bool) {
	lname := strings.ToLower(name)
	for _, id := range space.Browse(parent, model.HierarchicalReferencesID, true, true) {
		n, ok := space.Node(id)
		if !ok {
			continue
		}
		if strings.ToLower(n.BrowseName().Name) == lname {
			return id, true
		}
	}
	return nil, false
}

// ResolvePath resolves a browse path such as "Objects/MyFolder/Var" starting
// at the Root folder. A path starting with "Root/" is accepted too.
func ResolvePath(space *model.AddressSpace, path string) (ua.NodeID, error) {
	parts, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(parts[0], "Root") {
		parts = parts[1:]
	}

	cur := ua.NodeID(model.RootFolderID)
	for _, name := range parts {
		next, ok := ResolveChild(space, cur, name)
		if !ok {
			return nil, fmt.Errorf("%w: %q under %s", ErrNodeNotFound, name, model.FormatNodeID(cur))
		}
		cur = next
	}
	return cur, nil
}

// Resolve accepts either a node id ("ns=2;i=...") or a browse path and
// returns the node id of an existing node.
func Resolve(space *model.AddressSpace, input string) (ua.NodeID, error) {
	input = strings.TrimSpace(input)
	if looksLikeNodeID(input) {
		id, err := ParseNodeID(input)
		if err != nil {
			return nil, err
		}
		if _, ok := space.Node(id); !ok {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, model.FormatNodeID(id))
		}
		return id, nil
	}
	return ResolvePath(space, input)
}

// BrowsePath returns the browse path of id by following inverse
// hierarchical references up to the Root folder, or up to the topmost
// ancestor for nodes outside it (type hierarchies).
func BrowsePath(space *model.AddressSpace, id ua.NodeID) string {
	var parts []string
	seen := make(map[ua.NodeID]bool)
	for cur := id; cur != nil && cur != ua.NodeID(model.RootFolderID); {
		if seen[cur] {
			return ""
		}
		seen[cur] = true
		n, ok := space.Node(cur)
		if !ok {
			return ""
		}
		parts = append(parts, n.BrowseName().Name)
		parents := space.Browse(cur, model.HierarchicalReferencesID, false, true)
		if len(parents) == 0 {
			break
		}
		cur = parents[0]
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

func looksLikeNodeID(s string) bool {
	for _, p := range []string{"ns=", "i=", "s=", "g="} {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

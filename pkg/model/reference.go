package model

import (
	"github.com/awcullen/opcua/ua"

	"github.com/infomodel/infomodel-go/pkg/log"
)

// Reference is a typed directed edge as seen from the node that holds it.
// The edge A -HasProperty-> B is stored on A as forward and on B as
// inverse.
type Reference struct {
	ReferenceTypeID ua.NodeID
	IsForward       bool
	TargetID        ua.NodeID
}

// AddReference adds the edge source -refType-> target when isForward is
// true, or target -refType-> source otherwise. Both endpoints record it.
func (s *AddressSpace) AddReference(source, refType, target ua.NodeID, isForward bool) error {
	start := s.now()
	err := s.addReference(source, refType, target, isForward)
	s.emitConstruction(log.OpAddReference, source, err, start)
	return err
}

func (s *AddressSpace) addReference(source, refType, target ua.NodeID, isForward bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, ok := s.nodes[source]
	if !ok {
		return wrapNodeErr(ErrNodeIDUnknown, "source", source)
	}
	dst, ok := s.nodes[target]
	if !ok {
		return wrapNodeErr(ErrNodeIDUnknown, "target", target)
	}
	if !s.isReferenceTypeLocked(refType) {
		return wrapNodeErr(ErrReferenceTypeIDInvalid, "reference type", refType)
	}

	ref := Reference{ReferenceTypeID: refType, IsForward: isForward, TargetID: target}
	if src.hasReference(ref) {
		return wrapNodeErr(ErrDuplicateReference, "source", source)
	}
	link(src, dst, refType, isForward)
	return nil
}

// link records the reference on both nodes. Callers hold s.mu.
func link(src, dst *Node, refType ua.NodeID, isForward bool) {
	src.references = append(src.references, Reference{
		ReferenceTypeID: refType,
		IsForward:       isForward,
		TargetID:        dst.id,
	})
	dst.references = append(dst.references, Reference{
		ReferenceTypeID: refType,
		IsForward:       !isForward,
		TargetID:        src.id,
	})
}

// Browse returns the targets of the references of node id that match
// refType (or any subtype when includeSubtypes is set) in the given
// direction, in insertion order.
func (s *AddressSpace) Browse(id, refType ua.NodeID, forward, includeSubtypes bool) []ua.NodeID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	if !ok {
		return nil
	}
	var out []ua.NodeID
	for _, ref := range n.references {
		if ref.IsForward != forward {
			continue
		}
		if ref.ReferenceTypeID != refType &&
			!(includeSubtypes && s.isSubtypeLocked(ref.ReferenceTypeID, refType)) {
			continue
		}
		out = append(out, ref.TargetID)
	}
	return out
}

// IsSubtypeOf reports whether typeID equals base or derives from it by a
// chain of HasSubtype references.
func (s *AddressSpace) IsSubtypeOf(typeID, base ua.NodeID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSubtypeLocked(typeID, base)
}

func (s *AddressSpace) isSubtypeLocked(typeID, base ua.NodeID) bool {
	seen := make(map[ua.NodeID]bool)
	for cur := typeID; cur != nil && !seen[cur]; {
		if cur == base {
			return true
		}
		seen[cur] = true
		n, ok := s.nodes[cur]
		if !ok {
			return false
		}
		cur = nil
		for _, ref := range n.references {
			if ref.ReferenceTypeID == HasSubtypeID && !ref.IsForward {
				cur = ref.TargetID
				break
			}
		}
	}
	return false
}

func (s *AddressSpace) isReferenceTypeLocked(id ua.NodeID) bool {
	n, ok := s.nodes[id]
	return ok && n.class == NodeClassReferenceType
}

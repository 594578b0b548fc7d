package render

import (
	"log/slog"

	"github.com/oliverbestmann/quill/bridge"
	"github.com/oliverbestmann/quill/stage"
)

// PassLabel names the render graph node of one ui render target. Entity
// index and generation together keep labels of recycled entities distinct.
type PassLabel struct {
	EntityIndex      uint32
	EntityGeneration uint32
	Kind             bridge.TargetKind
}

func passLabelFor(entity stage.Entity, kind bridge.TargetKind) PassLabel {
	return PassLabel{
		EntityIndex:      entity.Index,
		EntityGeneration: entity.Generation,
		Kind:             kind,
	}
}

// NodeCount returns the number of currently installed ui graph nodes.
func (r *Renderer) NodeCount() int {
	return len(r.nodes)
}

// syncNodes adds a render graph node per newly extracted target and tears
// down the nodes of targets that disappeared. Window nodes execute after the
// camera driver, image nodes before it so a ui image painted this frame can
// be sampled by a camera in the same frame.
func (r *Renderer) syncNodes() {
	desired := map[PassLabel]stage.Entity{}
	for entity, target := range r.extracted.Targets {
		desired[passLabelFor(entity, target.Kind)] = entity
	}

	for label, entity := range desired {
		if _, ok := r.nodes[label]; ok {
			continue
		}

		slog.Debug("Add ui render graph node",
			slog.Uint64("entity", uint64(label.EntityIndex)),
			slog.String("kind", label.Kind.String()),
		)

		node := newNode(r, entity, label.Kind)
		r.graph.AddNode(label, node)

		if label.Kind == bridge.TargetWindow {
			r.graph.AddEdge(stage.CameraDriverLabel, label)
		} else {
			r.graph.AddEdge(label, stage.CameraDriverLabel)
		}

		r.nodes[label] = node
	}

	for label, node := range r.nodes {
		if _, ok := desired[label]; ok {
			continue
		}

		if err := r.graph.RemoveNode(label); err != nil {
			// graph desync is worth reporting but never worth crashing
			slog.Error("Failed to remove a render graph node", slog.Any("err", err))
		}

		node.Release()
		delete(r.nodes, label)
	}
}

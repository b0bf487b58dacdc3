package scheduler

import (
	"slices"

	"go.uber.org/zap"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
)

// MergingModelNone disables cabin merging
const MergingModelNone = "none"

// MergeInstruction asks for a cabin to be combined with others before scheduling
type MergeInstruction struct {
	CabinID   string
	MergeWith []string
	Note      string
}

// MergeInstructionFor returns the instruction for a cabin.
// Returns false when merging is not configured or no instruction names the cabin.
func MergeInstructionFor(cabinID, mergingModel string, instructions []MergeInstruction) (MergeInstruction, bool) {
	if mergingModel == "" || len(instructions) == 0 {
		return MergeInstruction{}, false
	}
	idx := slices.IndexFunc(instructions, func(inst MergeInstruction) bool {
		return inst.CabinID == cabinID
	})
	if idx < 0 {
		return MergeInstruction{}, false
	}
	return instructions[idx], true
}

// MergeCabins applies the cabin merging model to the cabin list.
// Only "none" is implemented. Other models are accepted and leave the cabins unchanged.
func MergeCabins(cabins []model.Cabin, mergingModel string, instructions []MergeInstruction, logger *zap.Logger) []model.Cabin {
	merged := slices.Clone(cabins)
	if mergingModel == "" || mergingModel == MergingModelNone {
		return merged
	}

	pending := 0
	for _, cabin := range cabins {
		if _, ok := MergeInstructionFor(cabin.ID, mergingModel, instructions); ok {
			pending++
		}
	}

	logger.Warn("Cabin merging model is not implemented, cabins left unchanged",
		zap.String("model", mergingModel),
		zap.Int("instructions", pending))

	return merged
}

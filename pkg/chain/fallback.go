package chain

import (
	"github.com/KinematicTrees/kinematictrees.github.io/pkg/math3d"
	"github.com/KinematicTrees/kinematictrees.github.io/pkg/models"
)

const barHalfWidth = 0.06

// MiddleMesh is a bar joining the left and right joints of a straight cell,
// used when no middle template file is configured.
func MiddleMesh() *models.Mesh {
	w := barHalfWidth * 1.5
	return models.BoxMesh("middle", math3d.V3(-w, -w, -sep1), math3d.V3(w, w, sep1))
}

// BranchMesh is a bar from a left or right joint to its tail, used when no
// branch template file is configured.
func BranchMesh() *models.Mesh {
	w := barHalfWidth
	return models.BoxMesh("branch", math3d.V3(-w, -w, -sep2), math3d.V3(w, w, 0))
}

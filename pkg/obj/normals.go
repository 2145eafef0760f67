package obj

import "github.com/go-gl/mathgl/mgl32"

// ComputeNormals returns one normal per vertex of positions.
//
// Every triangle (i1,i2,i3) contributes cross(v3-v1, v3-v2) unnormalised to
// each of its three vertices; the sums are normalised at the end. Faces
// referencing a vertex outside positions are ignored. A vertex touched by no
// face, or only by degenerate faces, keeps the zero vector.
func ComputeNormals(positions []float32, faces []uint32) []float32 {
	normals := make([]float32, len(positions))
	n := uint32(len(positions) / 3)

	for f := 0; f+2 < len(faces); f += 3 {
		i1, i2, i3 := faces[f], faces[f+1], faces[f+2]
		if i1 >= n || i2 >= n || i3 >= n {
			continue
		}
		v1 := vec3At(positions, int(i1))
		v2 := vec3At(positions, int(i2))
		v3 := vec3At(positions, int(i3))

		normal := v3.Sub(v1).Cross(v3.Sub(v2))
		for _, i := range [3]uint32{i1, i2, i3} {
			normals[3*i] += normal[0]
			normals[3*i+1] += normal[1]
			normals[3*i+2] += normal[2]
		}
	}

	for k := 0; k+2 < len(normals); k += 3 {
		nv := safeNormalize(mgl32.Vec3{normals[k], normals[k+1], normals[k+2]})
		normals[k], normals[k+1], normals[k+2] = nv[0], nv[1], nv[2]
	}
	return normals
}

// safeNormalize is mgl32's Normalize without the NaN for a zero vector.
func safeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return mgl32.Vec3{}
	}
	return v.Normalize()
}

package scene

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/celview/pkg/obj"
)

// Attribute locations shared by every program.
const (
	attribPosition = 0
	attribNormal   = 1
)

// MeshBuffers holds the GPU copy of one mesh. Positions and normals live in
// separate buffers so the marker pass can ignore normals.
type MeshBuffers struct {
	vao        uint32
	positions  uint32
	normals    uint32
	ebo        uint32
	indexCount int32
}

// UploadMesh copies m to the GPU. An empty mesh yields nil, which draws
// nothing.
func UploadMesh(m *obj.Mesh) *MeshBuffers {
	if m.Empty() {
		return nil
	}

	b := &MeshBuffers{indexCount: int32(m.IndexCount())}
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	b.positions = arrayBuffer(m.Positions)
	gl.EnableVertexAttribArray(attribPosition)
	gl.VertexAttribPointerWithOffset(attribPosition, 3, gl.FLOAT, false, 3*4, 0)

	normals := m.Normals
	if len(normals) != len(m.Positions) {
		normals = make([]float32, len(m.Positions))
	}
	b.normals = arrayBuffer(normals)
	gl.EnableVertexAttribArray(attribNormal)
	gl.VertexAttribPointerWithOffset(attribNormal, 3, gl.FLOAT, false, 3*4, 0)

	gl.GenBuffers(1, &b.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Faces)*4, unsafe.Pointer(&m.Faces[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return b
}

func arrayBuffer(data []float32) uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.ARRAY_BUFFER, id)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	return id
}

// IndexCount returns the number of indices drawn per pass.
func (b *MeshBuffers) IndexCount() int32 {
	if b == nil {
		return 0
	}
	return b.indexCount
}

func (b *MeshBuffers) draw() {
	if b == nil {
		return
	}
	gl.BindVertexArray(b.vao)
	gl.DrawElements(gl.TRIANGLES, b.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Destroy releases the GPU buffers. It is safe on nil.
func (b *MeshBuffers) Destroy() {
	if b == nil {
		return
	}
	for _, id := range []*uint32{&b.positions, &b.normals, &b.ebo} {
		if *id != 0 {
			gl.DeleteBuffers(1, id)
			*id = 0
		}
	}
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
}

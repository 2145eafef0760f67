package ui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/celview/internal/engine/input"
)

// SceneView shows an offscreen render as an image and forwards pointer input
// over it to a camera controller.
type SceneView struct {
	Title string

	width, height int32
}

// NewSceneView creates a viewport window with the given title.
func NewSceneView(title string) *SceneView {
	return &SceneView{Title: title, width: 1, height: 1}
}

// Size returns the image size of the last frame in pixels. Render the
// scene at this size before calling Draw.
func (v *SceneView) Size() (int32, int32) {
	return v.width, v.height
}

// Draw shows texture and feeds ctrl. Pointer input only reaches the camera
// while the image is hovered or a drag that started on it is in progress.
func (v *SceneView) Draw(pos, size imgui.Vec2, texture uint32, ctrl *input.Controller) {
	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse |
		imgui.WindowFlagsNoScrollbar | imgui.WindowFlagsNoScrollWithMouse
	imgui.SetNextWindowPos(pos)
	imgui.SetNextWindowSize(size)
	if imgui.BeginV(v.Title, nil, flags) {
		avail := imgui.ContentRegionAvail()
		v.width = max(int32(avail.X), 1)
		v.height = max(int32(avail.Y), 1)

		// Display rendered texture (flip V for OpenGL)
		texRef := imgui.NewTextureRefTextureID(imgui.TextureID(texture))
		imgui.ImageWithBgV(
			*texRef,
			imgui.NewVec2(float32(v.width), float32(v.height)),
			imgui.NewVec2(0, 1),
			imgui.NewVec2(1, 0),
			imgui.NewVec4(0, 0, 0, 1),
			imgui.NewVec4(1, 1, 1, 1),
		)

		hovered := imgui.IsItemHovered()
		mouse := imgui.MousePos()
		pointer := input.PointerState{
			X:      mouse.X,
			Y:      mouse.Y,
			Left:   imgui.IsMouseDown(imgui.MouseButtonLeft),
			Right:  imgui.IsMouseDown(imgui.MouseButtonRight),
			Middle: imgui.IsMouseDown(imgui.MouseButtonMiddle),
		}
		if hovered || ctrl.Mode() != input.ModeNone {
			ctrl.Sync(pointer)
		} else {
			ctrl.Ignore(pointer)
		}
		if hovered {
			if wheel := imgui.CurrentIO().MouseWheel(); wheel != 0 {
				ctrl.Scroll(wheel)
			}
		}
	}
	imgui.End()
}

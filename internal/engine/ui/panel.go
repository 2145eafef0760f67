package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/celview/internal/library"
	"github.com/Faultbox/celview/internal/viewer"
)

// PanelState is what the panel shows in one frame.
type PanelState struct {
	Settings viewer.Settings
	Files    []string
	Selected int
	Model    *viewer.Model
	Status   string
	Driver   string // GL renderer string, shown under the model info
}

// Actions are the requests the user made this frame.
type Actions struct {
	Select      int // index into Files, -1 for none
	Open        bool
	Save        bool
	ResetCamera bool
	FitCamera   bool
	ResetLook   bool
	Screenshot  bool
}

// Panel draws the settings controls. It never mutates the settings it is
// given; Draw returns the edited copy.
type Panel struct {
	Title string
}

// NewPanel creates a panel with the given window title.
func NewPanel(title string) *Panel {
	return &Panel{Title: title}
}

// Draw renders the panel as a fixed window at pos/size.
func (p *Panel) Draw(pos, size imgui.Vec2, st PanelState) (viewer.Settings, Actions) {
	s := st.Settings
	act := Actions{Select: -1}

	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse
	imgui.SetNextWindowPos(pos)
	imgui.SetNextWindowSize(size)
	if imgui.BeginV(p.Title, nil, flags) {
		if imgui.CollapsingHeaderTreeNodeFlagsV("Background", imgui.TreeNodeFlagsDefaultOpen) {
			imgui.ColorEdit3("Background color", (*[3]float32)(&s.Background))
		}

		if imgui.CollapsingHeaderTreeNodeFlagsV("Model", imgui.TreeNodeFlagsDefaultOpen) {
			imgui.Checkbox("Show mesh", &s.ShowMesh)
			act.Select = modelCombo(st.Files, st.Selected)
			if imgui.Button("Open file...") {
				act.Open = true
			}
			imgui.ColorEdit3("Model color", (*[3]float32)(&s.ModelColor))
			imgui.ColorEdit3("Outline color", (*[3]float32)(&s.OutlineColor))
			imgui.SliderFloat("Outline Thickness", &s.OutlineThickness, viewer.MinOutlineThickness, viewer.MaxOutlineThickness)
			imgui.SliderFloat("Rotation X", &s.Rotation[0], viewer.MinRotation, viewer.MaxRotation)
			imgui.SliderFloat("Rotation Y", &s.Rotation[1], viewer.MinRotation, viewer.MaxRotation)
			imgui.SliderFloat("Rotation Z", &s.Rotation[2], viewer.MinRotation, viewer.MaxRotation)
		}

		if imgui.CollapsingHeaderTreeNodeFlagsV("Light", imgui.TreeNodeFlagsDefaultOpen) {
			imgui.SliderFloat3("Light position", (*[3]float32)(&s.LightPosition), viewer.MinLightCoord, viewer.MaxLightCoord)
			imgui.ColorEdit3("Light Color", (*[3]float32)(&s.LightColor))
		}

		if imgui.CollapsingHeaderTreeNodeFlagsV("NPR settings", imgui.TreeNodeFlagsDefaultOpen) {
			imgui.SliderInt("Color threshold", &s.ColorBands, viewer.MinColorBands, viewer.MaxColorBands)
			imgui.SliderFloat("Edge threshold", &s.EdgeThreshold, viewer.MinEdgeThreshold, viewer.MaxEdgeThreshold)
			imgui.ColorEdit3("Edges color", (*[3]float32)(&s.EdgeColor))
			imgui.SliderInt("Dithering", &s.Dithering, viewer.MinDithering, viewer.MaxDithering)
			imgui.ColorEdit3("Dithering Color", (*[3]float32)(&s.DitheringColor))
		}

		if imgui.CollapsingHeaderTreeNodeFlagsV("View", imgui.TreeNodeFlagsNone) {
			if imgui.Button("Reset camera") {
				act.ResetCamera = true
			}
			imgui.SameLine()
			if imgui.Button("Fit model") {
				act.FitCamera = true
			}
			if imgui.Button("Default look") {
				act.ResetLook = true
			}
			imgui.SameLine()
			if imgui.Button("Save settings") {
				act.Save = true
			}
			if imgui.Button("Screenshot") {
				act.Screenshot = true
			}
		}

		imgui.Separator()
		modelInfo(st.Model)
		if st.Status != "" {
			imgui.TextWrapped(st.Status)
		}
		if st.Driver != "" {
			imgui.TextDisabled(st.Driver)
		}
	}
	imgui.End()

	return s.Clamp(), act
}

// modelCombo lists files by base name and returns the index picked this
// frame, or -1.
func modelCombo(files []string, selected int) int {
	preview := "(none)"
	if selected >= 0 && selected < len(files) {
		preview = library.DisplayName(files[selected])
	}

	picked := -1
	if imgui.BeginCombo("Object file", preview) {
		for i, f := range files {
			isSelected := i == selected
			if imgui.SelectableBoolV(fmt.Sprintf("%s##%d", library.DisplayName(f), i), isSelected, 0, imgui.NewVec2(0, 0)) && !isSelected {
				picked = i
			}
			if isSelected {
				imgui.SetItemDefaultFocus()
			}
		}
		imgui.EndCombo()
	}
	return picked
}

func modelInfo(m *viewer.Model) {
	if m == nil || m.Mesh.Empty() {
		imgui.TextDisabled("No model loaded")
		return
	}
	imgui.Text(library.DisplayName(m.Path))
	imgui.Text(fmt.Sprintf("%d vertices | %d faces", m.Mesh.VertexCount(), m.Mesh.FaceCount()))
	if m.Report != nil && !m.Report.Clean() {
		imgui.TextDisabled(fmt.Sprintf("%d records skipped | %d faces dropped", len(m.Report.Lines), m.Report.SkippedFaces))
	}
}

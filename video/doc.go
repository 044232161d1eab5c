// Package video provides the pixel-side building blocks for movie presentation.
//
// Decoded frames arrive from the audio/video backend as Frame values holding
// non-premultiplied RGBA pixels. Before a frame is shown it may be split into
// color and alpha halves (side-by-side masks) or have a separately decoded
// mask frame folded into its alpha channel:
//
//	color, mask := video.SplitSideMask(frame)
//	if err := video.ApplyAlphaMask(mask, color); err != nil {
//	    // no usable frame this redraw
//	}
//
// Frames become textures through a TextureLoader. SoftwareRenderer is the
// in-memory implementation used by tests and the demo program; a GPU backend
// provides its own.
//
// # Render Trees
//
// A Render is a sized node holding placed children (textures or other
// renders) and optional Forward/Reverse scale matrices. Letterbox wraps a
// renderable into a fixed box, scaling uniformly and centering it:
//
//	boxed := video.Letterbox(texture, 640, 360)
//	img := video.Rasterize(boxed)
//
// Offsets are expressed in the coordinates of the render that holds the
// child. Reverse scales the content of every child about its offset, which is
// how letterboxing and oversampling correction are drawn; Forward is the
// inverse mapping used for hit testing.
package video

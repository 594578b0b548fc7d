package render

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/quill/stage"
)

// GpuImage is the uploaded counterpart of an image asset.
type GpuImage struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView
	Format  wgpu.TextureFormat
	Width   uint32
	Height  uint32
}

func (g *GpuImage) Release() {
	if g.View != nil {
		g.View.Release()
		g.View = nil
	}

	if g.Texture != nil {
		g.Texture.Release()
		g.Texture = nil
	}
}

// Images keeps a gpu texture per image asset, following the change events of
// the asset store. An asset modified this frame is re-uploaded, a removed
// asset drops its texture.
type Images struct {
	gpu    *GPU
	assets *stage.Images
	events *stage.AssetEvents

	// assets that existed before we subscribed, uploaded on the first Prepare
	backlog []stage.Handle

	images map[stage.Handle]*GpuImage
}

func NewImages(gpu *GPU, assets *stage.Images) *Images {
	return &Images{
		gpu:     gpu,
		assets:  assets,
		events:  assets.Subscribe(),
		backlog: assets.Handles(),
		images:  map[stage.Handle]*GpuImage{},
	}
}

func (im *Images) Get(handle stage.Handle) (*GpuImage, bool) {
	img, ok := im.images[handle]
	return img, ok
}

// Prepare applies the asset changes since the previous frame.
func (im *Images) Prepare() error {
	events := im.events.Read()

	if im.gpu == nil {
		return nil
	}

	// assets added before we subscribed never show up as an event for our
	// reader
	for _, handle := range im.backlog {
		src, ok := im.assets.Get(handle)
		if !ok {
			continue
		}

		if err := im.upload(handle, src); err != nil {
			return fmt.Errorf("upload image %d: %w", handle, err)
		}
	}

	im.backlog = nil

	for _, event := range events {
		switch event.Kind {
		case stage.AssetAdded, stage.AssetModified:
			src, ok := im.assets.Get(event.Handle)
			if !ok {
				continue
			}

			if err := im.upload(event.Handle, src); err != nil {
				return fmt.Errorf("upload image %d: %w", event.Handle, err)
			}

		case stage.AssetRemoved:
			if img, ok := im.images[event.Handle]; ok {
				img.Release()
				delete(im.images, event.Handle)
			}
		}
	}

	return nil
}

func (im *Images) upload(handle stage.Handle, src *image.RGBA) error {
	bounds := src.Bounds()
	width, height := uint32(bounds.Dx()), uint32(bounds.Dy())

	existing := im.images[handle]
	if existing != nil && (existing.Width != width || existing.Height != height) {
		existing.Release()
		delete(im.images, handle)
		existing = nil
	}

	if existing == nil {
		slog.Debug("Create gpu texture",
			slog.Uint64("handle", uint64(handle)),
			slog.Int("width", int(width)),
			slog.Int("height", int(height)),
		)

		texture, err := im.gpu.CreateTexture(textureDescriptor(handle, width, height))
		if err != nil {
			return fmt.Errorf("create texture: %w", err)
		}

		view, err := texture.CreateView(nil)
		if err != nil {
			texture.Release()
			return fmt.Errorf("create texture view: %w", err)
		}

		existing = &GpuImage{
			Texture: texture,
			View:    view,
			Format:  wgpu.TextureFormatRGBA8UnormSrgb,
			Width:   width,
			Height:  height,
		}
		im.images[handle] = existing
	}

	layout := &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(src.Stride),
		RowsPerImage: height,
	}

	size := &wgpu.Extent3D{
		Width:              width,
		Height:             height,
		DepthOrArrayLayers: 1,
	}

	dest := &wgpu.ImageCopyTexture{
		Texture:  existing.Texture,
		MipLevel: 0,
		Origin:   wgpu.Origin3D{},
		Aspect:   wgpu.TextureAspectAll,
	}

	if err := im.gpu.WriteTexture(dest, src.Pix, layout, size); err != nil {
		return fmt.Errorf("copy image data to texture: %w", err)
	}

	return nil
}

// textureDescriptor describes the gpu texture of an image asset. Any asset
// may back an image render target, so the textures double as color
// attachments.
func textureDescriptor(handle stage.Handle, width, height uint32) *wgpu.TextureDescriptor {
	return &wgpu.TextureDescriptor{
		Label:         fmt.Sprintf("UiImage.%d", handle),
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		SampleCount:   1,
		MipLevelCount: 1,
		Dimension:     wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Usage: wgpu.TextureUsageTextureBinding |
			wgpu.TextureUsageCopyDst |
			wgpu.TextureUsageRenderAttachment,
	}
}

// Release drops all gpu textures.
func (im *Images) Release() {
	for handle, img := range im.images {
		img.Release()
		delete(im.images, handle)
	}
}

package render

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oliverbestmann/quill/stage"
)

var samplerCache, _ = lru.NewWithEvict[wgpu.SamplerDescriptor, *wgpu.Sampler](16, samplerCacheOnEvict)

func samplerCacheOnEvict(key wgpu.SamplerDescriptor, value *wgpu.Sampler) {
	value.Release()
}

// cachedSampler returns a sampler matching your description. The sampler may
// be cached, you must not call wgpu.Sampler.Release() on it.
func cachedSampler(dev *wgpu.Device, desc wgpu.SamplerDescriptor) (*wgpu.Sampler, error) {
	sampler, ok := samplerCache.Get(desc)
	if ok {
		return sampler, nil
	}

	sampler, err := dev.CreateSampler(&desc)
	if err != nil {
		return nil, fmt.Errorf("create sampler: %w", err)
	}

	samplerCache.Add(desc, sampler)

	return sampler, nil
}

func uiSamplerDescriptor() wgpu.SamplerDescriptor {
	return wgpu.SamplerDescriptor{
		Label:         "Ui.Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
}

// queueBindGroups rebuilds the texture bind group of every texture visible
// this frame. The cache only lives for one frame, a texture that disappears
// from the snapshot loses its bind group.
func (r *Renderer) queueBindGroups() {
	for key, bindGroup := range r.bindGroups {
		bindGroup.Release()
		delete(r.bindGroups, key)
	}

	if r.gpu == nil {
		return
	}

	build := func(key TextureKey, asset stage.Handle) {
		img, ok := r.images.Get(asset)
		if !ok {
			// asset not uploaded yet, the draw referencing it is skipped
			return
		}

		sampler, err := cachedSampler(r.gpu.Device, uiSamplerDescriptor())
		handle(err, "create ui sampler")

		bindGroup, err := r.gpu.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "Ui.Texture",
			Layout: r.sharedPipeline().textureLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, TextureView: img.View},
				{Binding: 1, Sampler: sampler},
			},
		})
		handle(err, "create ui texture bind group")

		r.bindGroups[key] = bindGroup
	}

	for key, asset := range r.extracted.Managed {
		build(key, asset)
	}

	for id, asset := range r.extracted.User {
		build(userKey(id), asset)
	}
}

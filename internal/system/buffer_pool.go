package system

import (
	"image"
	"sync"
)

// ImagePool хранит буферы *image.NRGBA по размеру кадра, чтобы покадровый
// анализ не выделял новый буфер на каждый кадр.
//
// Буферы всегда начинаются в (0,0): вызывающий сам сдвигает координаты
// исходного изображения.
type ImagePool struct {
	mu    sync.RWMutex
	pools map[image.Point]*sync.Pool
}

func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Point]*sync.Pool)}
}

var globalPool = NewImagePool()

// GetImage берёт из общего пула буфер размера size.Dx() x size.Dy().
// Содержимое буфера не очищается.
func GetImage(size image.Rectangle) *image.NRGBA {
	return globalPool.Get(size.Size())
}

// PutImage возвращает буфер в общий пул.
func PutImage(img *image.NRGBA) {
	globalPool.Put(img)
}

func (p *ImagePool) Get(size image.Point) *image.NRGBA {
	return p.pool(size).Get().(*image.NRGBA)
}

// Put принимает только буферы, выданные Get: с началом в (0,0) и без
// собственного шага строки, как у подызображений.
func (p *ImagePool) Put(img *image.NRGBA) {
	if img == nil || img.Rect.Min != (image.Point{}) || img.Stride != 4*img.Rect.Dx() {
		return
	}
	p.pool(img.Rect.Size()).Put(img)
}

// pool возвращает пул для размера, создавая его при первом обращении.
func (p *ImagePool) pool(size image.Point) *sync.Pool {
	p.mu.RLock()
	pool, ok := p.pools[size]
	p.mu.RUnlock()
	if ok {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// другой вызов мог создать пул, пока блокировка была снята
	if pool, ok = p.pools[size]; ok {
		return pool
	}
	pool = &sync.Pool{
		New: func() any {
			return image.NewNRGBA(image.Rectangle{Max: size})
		},
	}
	p.pools[size] = pool
	return pool
}

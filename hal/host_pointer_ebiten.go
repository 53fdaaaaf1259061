//go:build cgo

package hal

import "github.com/hajimehoshi/ebiten/v2"

func (p *hostPointer) poll(w, h int) {
	x, y := ebiten.CursorPosition()
	_, wy := ebiten.Wheel()
	p.update(x, y, w, h, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), wy)
}

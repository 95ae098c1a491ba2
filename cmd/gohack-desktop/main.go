// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/lassandro/gohack/pkg/machine"
)

var helpvar bool

const usage = "gohack-desktop filename"

// Instructions executed per display tick, a fixed clock of roughly 3MHz at
// sixty frames per second
const stepsPerFrame = 50000

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.Parse()
}

type keyMapping struct {
	Key  ebiten.Key
	Code uint16
}

// The keyboard register reports one held key at a time; keys scan in table
// order and the first one held wins
var keyTable = []keyMapping{
	{ebiten.KeyEnter, machine.KEY_NEWLINE},
	{ebiten.KeyBackspace, machine.KEY_BACKSPACE},
	{ebiten.KeyArrowLeft, machine.KEY_LEFT},
	{ebiten.KeyArrowUp, machine.KEY_UP},
	{ebiten.KeyArrowRight, machine.KEY_RIGHT},
	{ebiten.KeyArrowDown, machine.KEY_DOWN},
	{ebiten.KeyHome, machine.KEY_HOME},
	{ebiten.KeyEnd, machine.KEY_END},
	{ebiten.KeyPageUp, machine.KEY_PAGEUP},
	{ebiten.KeyPageDown, machine.KEY_PAGEDOWN},
	{ebiten.KeyInsert, machine.KEY_INSERT},
	{ebiten.KeyDelete, machine.KEY_DELETE},
	{ebiten.KeyEscape, machine.KEY_ESC},
	{ebiten.KeyF1, machine.KEY_F1},
	{ebiten.KeyF2, machine.KEY_F2},
	{ebiten.KeyF3, machine.KEY_F3},
	{ebiten.KeyF4, machine.KEY_F4},
	{ebiten.KeyF5, machine.KEY_F5},
	{ebiten.KeyF6, machine.KEY_F6},
	{ebiten.KeyF7, machine.KEY_F7},
	{ebiten.KeyF8, machine.KEY_F8},
	{ebiten.KeyF9, machine.KEY_F9},
	{ebiten.KeyF10, machine.KEY_F10},
	{ebiten.KeyF11, machine.KEY_F11},
	{ebiten.KeyF12, machine.KEY_F12},
	{ebiten.KeySpace, ' '},
	{ebiten.KeyDigit0, '0'},
	{ebiten.KeyDigit1, '1'},
	{ebiten.KeyDigit2, '2'},
	{ebiten.KeyDigit3, '3'},
	{ebiten.KeyDigit4, '4'},
	{ebiten.KeyDigit5, '5'},
	{ebiten.KeyDigit6, '6'},
	{ebiten.KeyDigit7, '7'},
	{ebiten.KeyDigit8, '8'},
	{ebiten.KeyDigit9, '9'},
	{ebiten.KeyA, 'A'},
	{ebiten.KeyB, 'B'},
	{ebiten.KeyC, 'C'},
	{ebiten.KeyD, 'D'},
	{ebiten.KeyE, 'E'},
	{ebiten.KeyF, 'F'},
	{ebiten.KeyG, 'G'},
	{ebiten.KeyH, 'H'},
	{ebiten.KeyI, 'I'},
	{ebiten.KeyJ, 'J'},
	{ebiten.KeyK, 'K'},
	{ebiten.KeyL, 'L'},
	{ebiten.KeyM, 'M'},
	{ebiten.KeyN, 'N'},
	{ebiten.KeyO, 'O'},
	{ebiten.KeyP, 'P'},
	{ebiten.KeyQ, 'Q'},
	{ebiten.KeyR, 'R'},
	{ebiten.KeyS, 'S'},
	{ebiten.KeyT, 'T'},
	{ebiten.KeyU, 'U'},
	{ebiten.KeyV, 'V'},
	{ebiten.KeyW, 'W'},
	{ebiten.KeyX, 'X'},
	{ebiten.KeyY, 'Y'},
	{ebiten.KeyZ, 'Z'},
}

type Game struct {
	mc     *machine.Machine
	screen *ebiten.Image // reused 512x256 monochrome canvas
	pixels []byte
}

func (g *Game) Update() error {
	var key uint16 = 0

	for _, mapping := range keyTable {
		if ebiten.IsKeyPressed(mapping.Key) {
			key = mapping.Code
			break
		}
	}

	// No keyboard device is attached, so the register holds whatever the
	// host stores: the held key's code, or zero
	g.mc.State.RAM[machine.DEV_KBD] = key

	for i := 0; i < stepsPerFrame; i++ {
		g.mc.Step()
	}

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.screen == nil {
		g.screen = ebiten.NewImage(
			machine.SCREEN_WIDTH, machine.SCREEN_HEIGHT,
		)
		g.pixels = make(
			[]byte, machine.SCREEN_WIDTH*machine.SCREEN_HEIGHT*4,
		)
	}

	// One screen word holds sixteen pixels, lowest bit leftmost, set bits
	// drawn black on white
	for word := 0; word < machine.SCREEN_WORDS; word++ {
		value := g.mc.State.RAM[int(machine.DEV_SCREEN)+word]

		for bit := 0; bit < 16; bit++ {
			var shade byte = 0xFF

			if (value>>bit)&0x1 == 1 {
				shade = 0x00
			}

			pixel := (word*16 + bit) * 4

			g.pixels[pixel+0] = shade
			g.pixels[pixel+1] = shade
			g.pixels[pixel+2] = shade
			g.pixels[pixel+3] = 0xFF
		}
	}

	g.screen.WritePixels(g.pixels)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(2, 2)
	screen.DrawImage(g.screen, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return machine.SCREEN_WIDTH * 2, machine.SCREEN_HEIGHT * 2
}

func gohack_desktop() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	if len(args) != 1 {
		log.Println(usage)
		return 1
	}

	file, err := os.Open(args[0])

	if err != nil {
		log.Println(err)
		return 1
	}

	var mc machine.Machine

	if err := mc.LoadHack(file); err != nil {
		file.Close()
		log.Println(err)
		return 1
	}

	file.Close()

	ebiten.SetWindowSize(machine.SCREEN_WIDTH*2, machine.SCREEN_HEIGHT*2)
	ebiten.SetWindowTitle(filepath.Base(args[0]))

	if err := ebiten.RunGame(&Game{mc: &mc}); err != nil {
		log.Println(err)
		return 1
	}

	return 0
}

func main() {
	os.Exit(gohack_desktop())
}

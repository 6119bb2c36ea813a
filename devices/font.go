package devices

// font is 128 glyphs of 4x8 pixels. Each byte holds two scanlines, high
// nibble first, one bit per pixel with the leftmost pixel in the high bit.
// Glyphs from https://robey.lag.net/2010/01/23/tiny-monospace-font.html.
var font = [128 * 4]byte{
	0x00, 0xea, 0xaa, 0xe0, 0x00, 0xea, 0xaa, 0xe0, 0x00, 0xea, 0xaa, 0xe0, 0x00, 0xea, 0xaa, 0xe0,
	0x00, 0xea, 0xaa, 0xe0, 0x00, 0xea, 0xaa, 0xe0, 0x00, 0xea, 0xaa, 0xe0, 0x00, 0xea, 0xaa, 0xe0,
	0x00, 0xea, 0xaa, 0xe0, 0x00, 0xea, 0xaa, 0xe0, 0x00, 0xea, 0xaa, 0xe0, 0x00, 0xea, 0xaa, 0xe0,
	0x00, 0xea, 0xaa, 0xe0, 0x00, 0xea, 0xaa, 0xe0, 0x00, 0xea, 0xaa, 0xe0, 0x00, 0xea, 0xaa, 0xe0,
	0x00, 0xea, 0xaa, 0xe0, 0x00, 0xea, 0xaa, 0xe0, 0x00, 0xea, 0xaa, 0xe0, 0x00, 0xea, 0xaa, 0xe0,
	0x00, 0xea, 0xaa, 0xe0, 0x00, 0xea, 0xaa, 0xe0, 0x00, 0xea, 0xaa, 0xe0, 0x00, 0xea, 0xaa, 0xe0,
	0x00, 0xea, 0xaa, 0xe0, 0x00, 0xea, 0xaa, 0xe0, 0x00, 0xea, 0xaa, 0xe0, 0x00, 0xea, 0xaa, 0xe0,
	0x00, 0xea, 0xaa, 0xe0, 0x00, 0xea, 0xaa, 0xe0, 0x00, 0xea, 0xaa, 0xe0, 0x00, 0xee, 0xee, 0xe0,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x44, 0x40, 0x40, 0x00, 0xaa, 0x00, 0x00, 0x00, 0xae, 0xae, 0xa0, // space-#
	0x00, 0x6c, 0x6c, 0x40, 0x00, 0x82, 0x48, 0x20, 0x00, 0xcc, 0xea, 0x60, 0x00, 0x44, 0x00, 0x00, // $-'
	0x00, 0x24, 0x44, 0x20, 0x00, 0x84, 0x44, 0x80, 0x00, 0x0a, 0x4a, 0x00, 0x00, 0x04, 0xe4, 0x00, // (-+
	0x00, 0x00, 0x04, 0x80, 0x00, 0x00, 0xe0, 0x00, 0x00, 0x00, 0x00, 0x80, 0x00, 0x22, 0x48, 0x80, // ,-/
	0x00, 0x6a, 0xaa, 0xc0, 0x00, 0x4c, 0x44, 0x40, 0x00, 0xc2, 0x48, 0xe0, 0x00, 0xc2, 0x42, 0xc0, // 0-3
	0x00, 0xaa, 0xe2, 0x20, 0x00, 0xe8, 0xc2, 0xc0, 0x00, 0x68, 0xea, 0xe0, 0x00, 0xe2, 0x48, 0x80, // 4-7
	0x00, 0xea, 0xea, 0xe0, 0x00, 0xea, 0xe2, 0xc0, 0x00, 0x04, 0x04, 0x00, 0x00, 0x04, 0x04, 0x80, // 8-;
	0x00, 0x24, 0x84, 0x20, 0x00, 0x0e, 0x0e, 0x00, 0x00, 0x84, 0x24, 0x80, 0x00, 0xe2, 0x40, 0x40, // <-?
	0x00, 0x4a, 0xe8, 0x60, 0x00, 0x4a, 0xea, 0xa0, 0x00, 0xca, 0xca, 0xc0, 0x00, 0x68, 0x88, 0x60, // @-C
	0x00, 0xca, 0xaa, 0xc0, 0x00, 0xe8, 0xc8, 0xe0, 0x00, 0xe8, 0xc8, 0x80, 0x00, 0xe8, 0xaa, 0xe0, // D-G
	0x00, 0xaa, 0xea, 0xa0, 0x00, 0xe4, 0x44, 0xe0, 0x00, 0x22, 0x2a, 0x40, 0x00, 0xaa, 0xca, 0xa0, // H-K
	0x00, 0x88, 0x88, 0xe0, 0x00, 0xae, 0xea, 0xa0, 0x00, 0xae, 0xea, 0xa0, 0x00, 0x4a, 0xaa, 0x40, // L-O
	0x00, 0xca, 0xc8, 0x80, 0x00, 0x4a, 0xae, 0xe0, 0x00, 0xca, 0xca, 0xa0, 0x00, 0xe8, 0xe2, 0xe0, // P-S
	0x00, 0xe4, 0x44, 0x40, 0x00, 0xaa, 0xaa, 0xe0, 0x00, 0xaa, 0xaa, 0x40, 0x00, 0xaa, 0xee, 0xa0, // T-W
	0x00, 0xaa, 0x4a, 0xa0, 0x00, 0xaa, 0x44, 0x40, 0x00, 0xe2, 0x48, 0xe0, 0x00, 0xe8, 0x88, 0xe0, // X-[
	0x00, 0x08, 0x42, 0x00, 0x00, 0xe2, 0x22, 0xe0, 0x00, 0x4a, 0x00, 0x00, 0x00, 0x00, 0x00, 0xe0, // \-_
	0x00, 0x84, 0x00, 0x00, 0x00, 0x0c, 0x6a, 0xe0, 0x00, 0x8c, 0xaa, 0xc0, 0x00, 0x06, 0x88, 0x60, // `-c
	0x00, 0x26, 0xaa, 0x60, 0x00, 0x06, 0xac, 0x60, 0x00, 0x24, 0xe4, 0x40, 0x00, 0x06, 0xae, 0x24, // d-g
	0x00, 0x8c, 0xaa, 0xa0, 0x00, 0x40, 0x44, 0x40, 0x00, 0x20, 0x22, 0xa4, 0x00, 0x8a, 0xcc, 0xa0, // h-k
	0x00, 0xc4, 0x44, 0xe0, 0x00, 0x0e, 0xee, 0xa0, 0x00, 0x0c, 0xaa, 0xa0, 0x00, 0x04, 0xaa, 0x40, // l-o
	0x00, 0x0c, 0xaa, 0xc8, 0x00, 0x06, 0xaa, 0x62, 0x00, 0x06, 0x88, 0x80, 0x00, 0x06, 0xc6, 0xc0, // p-s
	0x00, 0x4e, 0x44, 0x60, 0x00, 0x0a, 0xaa, 0x60, 0x00, 0x0a, 0xae, 0x40, 0x00, 0x0a, 0xee, 0xe0, // t-w
	0x00, 0x0a, 0x44, 0xa0, 0x00, 0x0a, 0xa6, 0x24, 0x00, 0x0e, 0x6c, 0xe0, 0x00, 0x64, 0x84, 0x60, // x-{
	0x00, 0x44, 0x04, 0x40, 0x00, 0xc4, 0x24, 0xc0, 0x00, 0x6c, 0x00, 0x00, 0x00, 0xee, 0xee, 0xe0, // |-del
}

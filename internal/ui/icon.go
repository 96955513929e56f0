package ui

// iconBytes is a 16x16 single-color PNG used as the tray icon until
// design delivers final assets.
var iconBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x10,
	0x08, 0x02, 0x00, 0x00, 0x00, 0x90, 0x91, 0x68, 0x36, 0x00, 0x00, 0x00,
	0x1c, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x62, 0xfa, 0xcf, 0xc0, 0xf0,
	0x9f, 0x81, 0x81, 0x81, 0x89, 0x81, 0x81, 0x81, 0x62, 0x30, 0x10, 0x60,
	0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0x03, 0x00, 0x1c, 0x10, 0x02, 0x07,
	0x1c, 0xd2, 0x27, 0x9c, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44,
	0xae, 0x42, 0x60, 0x82,
}

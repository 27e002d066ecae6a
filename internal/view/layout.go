package view

import (
	"strconv"

	"altimeter/internal/st7789"
	"altimeter/internal/tracker"
)

const (
	headerHeight = 16
	margin       = 2
	topPad       = 5

	rowStep   = 20 // one inline label/value row
	axisStep  = 16 // one axis row
	labelStep = 10 // small label above a value
	blockStep = 32 // label, value and gap
	blockSize = labelStep + 14

	batteryW = 12
	batteryH = 6
)

// Colours of the data area.
const (
	headerColor   = st7789.Blue
	textColor     = st7789.White
	altitudeColor = st7789.Cyan
	maxColor      = st7789.Red
	tempColor     = st7789.Yellow
	pressureColor = st7789.Blue
	imuColor      = st7789.Magenta
	okColor       = st7789.Green
	errorColor    = st7789.Red
)

func (m *Machine) drawHeader(battery int) {
	w, _ := m.panel.Size()
	m.panel.FillRect(0, 0, w, headerHeight, headerColor)
	m.big.DrawText(margin, 1, m.mode.Title(), textColor)
	if battery >= 0 {
		m.drawBattery(battery)
	}
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// drawBattery paints a 12x6 cell with a 1x2 tip in the header's top right
// corner.
func (m *Machine) drawBattery(pct int) {
	pct = clampPercent(pct)
	m.battery = pct

	w, _ := m.panel.Size()
	x, y := w-20, int16(2)
	m.panel.DrawRect(x, y, batteryW, batteryH, textColor)
	m.panel.FillRect(x+batteryW, y+(batteryH-2)/2, 1, 2, textColor)
	m.panel.FillRect(x+1, y+1, batteryW-2, batteryH-2, st7789.Black)

	fill := int16((batteryW - 2) * pct / 100)
	c := errorColor
	switch {
	case pct > 50:
		c = okColor
	case pct > 20:
		c = tempColor
	}
	if fill > 0 {
		m.panel.FillRect(x+1, y+1, fill, batteryH-2, c)
	}
}

func (m *Machine) bottom() int16 {
	_, h := m.panel.Size()
	return h
}

// room reports whether something need pixels tall fits at y.
func (m *Machine) room(y, need int16) bool {
	return y+need <= m.bottom()
}

func (m *Machine) drawData(s tracker.State) {
	w, h := m.panel.Size()
	m.panel.FillRect(0, headerHeight, w, h-headerHeight, st7789.Black)

	y := int16(headerHeight + topPad)
	switch m.mode {
	case Overview, AltitudeDetail, Environmental:
		if !s.PressureOK {
			m.drawNotFound(y, "BARO NOT FOUND")
			return
		}
	case IMUDetail, GyroDetail:
		if !s.IMUOK {
			m.drawNotFound(y, "IMU NOT FOUND")
			return
		}
	}

	switch m.mode {
	case Overview:
		m.drawOverview(y, s)
	case AltitudeDetail:
		m.drawAltitude(y, s)
	case Environmental:
		m.drawEnvironment(y, s)
	case IMUDetail:
		m.drawIMU(y, s)
	case GyroDetail:
		m.drawGyro(y, s)
	}
}

// row draws a small label, a large value and a small unit on one line. The
// label and unit sit on the value's baseline.
func (m *Machine) row(y int16, label string, v float32, decimals int, unit string, c st7789.Color) {
	dy := m.big.LineHeight() - m.small.LineHeight()
	x := m.small.DrawText(margin, y+dy, label, c)
	x = m.big.DrawNumber(x+2, y, v, decimals, c)
	if unit != "" {
		m.small.DrawText(x, y+dy, unit, c)
	}
}

// block draws a small label with a large value underneath.
func (m *Machine) block(y int16, label string, v float32, decimals int, unit string, c st7789.Color) {
	m.small.DrawText(margin, y, label, c)
	y += labelStep
	dy := m.big.LineHeight() - m.small.LineHeight()
	x := m.big.DrawNumber(margin+2, y, v, decimals, c)
	if unit != "" {
		m.small.DrawText(x, y+dy, unit, c)
	}
}

func (m *Machine) drawOverview(y int16, s tracker.State) {
	m.row(y, "ALT:", s.Altitude, 1, "m", altitudeColor)
	y += rowStep
	m.row(y, "MAX:", s.MaxAltitude, 1, "m", maxColor)
	y += rowStep
	m.row(y, "TEMP:", s.Temperature, 1, "C", tempColor)
	y += rowStep
	m.row(y, "PRESS:", s.Pressure/100, 0, "hPa", pressureColor)
	y += rowStep
	if s.IMUOK && m.room(y, m.big.LineHeight()) {
		m.row(y, "ACC:", s.AccelMagnitude, 2, "g", imuColor)
	}
}

func (m *Machine) drawAltitude(y int16, s tracker.State) {
	m.block(y, "CURRENT:", s.Altitude, 2, "m", altitudeColor)
	y += blockStep
	m.block(y, "MAXIMUM:", s.MaxAltitude, 2, "m", maxColor)
	y += blockStep
	if m.room(y, blockSize) {
		diff := s.Altitude - s.MaxAltitude
		c := errorColor
		if diff >= 0 {
			c = okColor
		}
		m.block(y, "DIFF:", diff, 2, "m", c)
	}
}

func (m *Machine) drawEnvironment(y int16, s tracker.State) {
	m.row(y, "ALT:", s.Altitude, 1, "m", altitudeColor)
	y += rowStep
	m.row(y, "MAX:", s.MaxAltitude, 1, "m", maxColor)
	y += rowStep
	m.block(y, "TEMP:", s.Temperature, 2, "C", tempColor)
	y += blockStep
	if m.room(y, blockSize) {
		m.block(y, "PRESSURE:", s.Pressure/100, 1, "hPa", pressureColor)
	}
}

// axes draws a heading and up to three axis rows while they fit, returning
// the y below the last one drawn.
func (m *Machine) axes(y int16, heading string, v tracker.Vector, decimals int) int16 {
	if !m.room(y, labelStep+m.big.LineHeight()) {
		return y
	}
	m.small.DrawText(margin, y, heading, imuColor)
	y += labelStep
	for i, val := range [3]float32{v.X, v.Y, v.Z} {
		if !m.room(y, m.big.LineHeight()) {
			break
		}
		m.row(y, tracker.Axis(i+1).String()+":", val, decimals, "", imuColor)
		y += axisStep
	}
	return y
}

func (m *Machine) drawIMU(y int16, s tracker.State) {
	y = m.axes(y, "ACCEL (g):", s.Accel, 2)
	m.axes(y+4, "GYRO (dps):", s.Gyro, 1)
}

func (m *Machine) drawGyro(y int16, s tracker.State) {
	y = m.axes(y, "GYRO (dps):", s.Gyro, 1)
	y += 4
	if !m.room(y, blockSize) {
		return
	}
	m.small.DrawText(margin, y, "MAX ACC:", maxColor)
	y += labelStep
	dy := m.big.LineHeight() - m.small.LineHeight()
	x := m.big.DrawNumber(margin+2, y, s.MaxAcceleration, 2, maxColor)
	m.small.DrawText(x, y+dy, "g "+s.MaxAccelerationAxis.String(), maxColor)
}

// drawNotFound is the diagnostic panel for a sensor that did not answer.
func (m *Machine) drawNotFound(y int16, title string) {
	m.small.DrawText(margin, y, title, errorColor)
	y += 2 * labelStep
	m.small.DrawText(margin, y, "Check wiring", textColor)
	y += 12
	m.small.DrawText(margin, y, "SDA: GPIO"+strconv.Itoa(m.wiring.SDA), textColor)
	y += 12
	m.small.DrawText(margin, y, "SCL: GPIO"+strconv.Itoa(m.wiring.SCL), textColor)
}

package device

// SetKelvin sets the white temperature of a lamp or color lamp.
func (d *Device) SetKelvin(kelvin int) error {
	if err := ValidateKelvin(kelvin); err != nil {
		return err
	}
	if !d.Kind.IsLamp() {
		return ErrNotLamp
	}
	d.Lamp.Kelvin = kelvin
	return nil
}

// SetBrightness sets the brightness percentage of a lamp or color lamp.
func (d *Device) SetBrightness(brightness int) error {
	if err := ValidateBrightness(brightness); err != nil {
		return err
	}
	if !d.Kind.IsLamp() {
		return ErrNotLamp
	}
	d.Lamp.Brightness = brightness
	return nil
}

// SetWhite sets kelvin and brightness together. Both values are validated
// before either is applied. A stored color is kept.
func (d *Device) SetWhite(kelvin, brightness int) error {
	if err := ValidateWhite(kelvin, brightness); err != nil {
		return err
	}
	if !d.Kind.IsLamp() {
		return ErrNotLamp
	}
	d.Lamp.Kelvin = kelvin
	d.Lamp.Brightness = brightness
	return nil
}

// SetColor sets the color of a color lamp. The stored kelvin is kept.
func (d *Device) SetColor(hex string) error {
	if _, err := ParseColor(hex); err != nil {
		return err
	}
	if d.Kind != KindColorLamp {
		return ErrNotColorLamp
	}
	d.Lamp.ColorHex = &hex
	return nil
}

// SetColorAndBrightness sets color and brightness of a color lamp
// atomically.
func (d *Device) SetColorAndBrightness(hex string, brightness int) error {
	if _, err := ParseColor(hex); err != nil {
		return err
	}
	if err := ValidateBrightness(brightness); err != nil {
		return err
	}
	if d.Kind != KindColorLamp {
		return ErrNotColorLamp
	}
	d.Lamp.ColorHex = &hex
	d.Lamp.Brightness = brightness
	return nil
}

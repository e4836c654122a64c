package app

import (
	"fmt"
	"strings"
	"time"

	"modescore/internal/adsb"
	"modescore/internal/pipeline"
)

// formatResult renders a processed frame as one line of key=value fields,
// e.g.
//
//	12:00:02.000 4CA7E8 ExtendedSquitter AirbornePosition alt=38000 lat=52.25721 lon=3.91937 pos=global
//
// An address that has not passed the acceptance heuristic is marked with "?".
func formatResult(r *pipeline.Result, at time.Time) string {
	msg := r.ModeS

	var b strings.Builder
	b.WriteString(at.UTC().Format("15:04:05.000"))
	b.WriteString(" ")
	b.WriteString(msg.FormattedIcao24())
	if !r.IcaoTrusted {
		b.WriteString("?")
	}
	b.WriteString(" ")
	b.WriteString(msg.DownlinkFormat.String())

	if r.Adsb != nil {
		b.WriteString(" ")
		b.WriteString(r.Adsb.Format.String())
		writePayload(&b, r.Adsb)
	}

	if msg.Altitude != nil {
		fmt.Fprintf(&b, " alt=%d", *msg.Altitude)
	}
	if msg.Identity != nil {
		fmt.Fprintf(&b, " squawk=%04d", *msg.Identity)
	}
	if callsign, ok := adsb.DecodeCommBIdentification(msg); ok {
		fmt.Fprintf(&b, " callsign=%s", callsign)
	}
	if ra, ok := adsb.DecodeAcas(msg); ok {
		writeAdvisory(&b, ra)
	}

	if r.Position != nil {
		fmt.Fprintf(&b, " lat=%.5f lon=%.5f pos=%s", r.Position.Latitude, r.Position.Longitude, r.PositionSource)
	}
	return b.String()
}

func writePayload(b *strings.Builder, msg *adsb.Message) {
	if id, ok := msg.IdentificationAndCategory(); ok {
		fmt.Fprintf(b, " callsign=%s category=%s", id.Callsign, id.Category)
		return
	}
	if p, ok := msg.AirbornePosition(); ok {
		if p.Altitude != nil {
			fmt.Fprintf(b, " alt=%d", *p.Altitude)
		}
		return
	}
	if p, ok := msg.SurfacePosition(); ok {
		if p.GroundSpeed != nil {
			fmt.Fprintf(b, " gs=%.1f", *p.GroundSpeed)
		}
		if p.GroundTrack != nil {
			fmt.Fprintf(b, " trk=%.1f", *p.GroundTrack)
		}
		return
	}
	if p, ok := msg.CoarseTisbAirbornePosition(); ok {
		if p.Altitude != nil {
			fmt.Fprintf(b, " alt=%d", *p.Altitude)
		}
		return
	}
	if v, ok := msg.AirborneVelocity(); ok {
		if v.Velocity != nil {
			fmt.Fprintf(b, " gs=%.1f", v.Velocity.Speed())
			if bearing := v.Velocity.Bearing(); bearing != nil {
				fmt.Fprintf(b, " trk=%.1f", *bearing)
			}
		}
		if v.Heading != nil {
			fmt.Fprintf(b, " hdg=%.1f", *v.Heading)
		}
		if v.Airspeed != nil {
			fmt.Fprintf(b, " %s=%d", strings.ToLower(v.AirspeedType.String()), *v.Airspeed)
		}
		if v.VerticalRate != nil {
			fmt.Fprintf(b, " vr=%d", *v.VerticalRate)
		}
		return
	}
	if s, ok := msg.AircraftStatus(); ok {
		if s.ModeA != nil {
			fmt.Fprintf(b, " emergency=%s squawk=%04d", s.Emergency, *s.ModeA)
		}
		if s.ResolutionAdvisory != nil {
			writeAdvisory(b, s.ResolutionAdvisory)
		}
		return
	}
	if s, ok := msg.TargetStateAndStatusVersion2(); ok {
		if s.SelectedAltitude != nil {
			fmt.Fprintf(b, " sel_alt=%d", *s.SelectedAltitude)
		}
		if s.SelectedHeading != nil {
			fmt.Fprintf(b, " sel_hdg=%.1f", *s.SelectedHeading)
		}
		return
	}
	if s, ok := msg.AircraftOperationalStatus(); ok {
		fmt.Fprintf(b, " version=%d", s.Version)
		return
	}
	if s, ok := msg.TestMessage(); ok && s.ModeA != nil {
		fmt.Fprintf(b, " squawk=%04d", *s.ModeA)
	}
}

func writeAdvisory(b *strings.Builder, ra *adsb.TcasResolutionAdvisory) {
	fmt.Fprintf(b, " ara=%014b", ra.ActiveResolutionAdvisory)
	if ra.ResolutionAdvisoryTerminated {
		b.WriteString(" ra_terminated")
	}
	if threat, ok := ra.FormattedThreatIcao24(); ok {
		fmt.Fprintf(b, " threat=%s", threat)
	}
}

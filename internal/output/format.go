package output

import (
	"fmt"
	"strings"

	"github.com/marioney/fdas3/internal/ahrs400"
	"github.com/marioney/fdas3/internal/vcmdas1"
)

// AngleTextHeader is the comment line naming the columns and units of an
// attitude text log. The magnetometer columns appear twice; the duplication
// is historical and preserved so existing plotting scripts keep working.
const AngleTextHeader = "% time[us]\txacc[m/s^2]\tyacc\tzacc\t" +
	"xgyro[rad/s]\tygyro\tzgyro\txmag[gauss]\tymag\tzmag\t" +
	"xmag[gauss]\tymag\tzmag\troll[rad]\tpitch\tyaw\t" +
	"temperature[C]\tsensor_time"

// ADCTextHeader is the comment line of an acquisition board text log.
const ADCTextHeader = "% time[us]\tch0[counts]\tch1\tch2\tch3\tch4\tch5\tch6\tch7" +
	"\tch8\tch9\tch10\tch11\tch12\tch13\tch14\tch15"

// AngleLine renders one converted attitude sample as a tab-separated line,
// fields in the documented column order, without a trailing newline.
func AngleLine(a *ahrs400.Angle) string {
	return fmt.Sprintf("%d\t%f\t%f\t%f\t%f\t%f\t%f\t%f\t%f\t%f\t%f\t%f\t%f\t%f\t%f",
		a.Time.UnixMicro(),
		a.XAcc, a.YAcc, a.ZAcc,
		a.XGyro, a.YGyro, a.ZGyro,
		a.XMag, a.YMag, a.ZMag,
		a.Roll, a.Pitch, a.Yaw,
		a.Temperature, a.SensorTime)
}

// ADCLine renders one acquisition board scan as a tab-separated line of raw
// counts, without a trailing newline.
func ADCLine(s *vcmdas1.Sample) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", s.Time.UnixMicro())
	for _, v := range s.Data {
		fmt.Fprintf(&b, "\t%d", v)
	}
	return b.String()
}

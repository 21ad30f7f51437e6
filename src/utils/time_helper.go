package utils

import "time"

type TimeServiceInterface interface {
	GetNow() time.Time
	GetNowUnix() int64
	GetNowDiffMinutes(unixTime int64) float64
	WaitSeconds(seconds int64)
}

type TimeHelper struct {
}

func (t *TimeHelper) GetNow() time.Time {
	return time.Now()
}

func (t *TimeHelper) GetNowUnix() int64 {
	return time.Now().Unix()
}

func (t *TimeHelper) GetNowDiffMinutes(unixTime int64) float64 {
	return float64(time.Now().Unix()-unixTime) / 60.00
}

func (t *TimeHelper) WaitSeconds(seconds int64) {
	time.Sleep(time.Second * time.Duration(seconds))
}

package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sgdiskPrint = `Disk image.raw: 62914560 sectors, 30.0 GiB
Sector size (logical): 512 bytes
Disk identifier (GUID): 0B9A8C5F-1D1B-4C57-9E61-1C2B1B0A6F11
Partition table holds up to 128 entries
Main partition table begins at sector 2 and ends at sector 33
First usable sector is 34, last usable sector is 62914526
Partitions will be aligned on 2048-sector boundaries
Total free space is 2014 sectors (1007.0 KiB)

Number  Start (sector)    End (sector)  Size       Code  Name
   1            2048          206847   100.0 MiB   EF00  EFI system partition
   2          206848          239615   16.0 MiB    0C01  Microsoft reserved partition
   3          239616        61863935   29.4 GiB    0700  Basic data partition
  30        61863936        62912511   512.0 MiB   2700
`

const sgdiskInfo = `Partition GUID code: EBD0A0A2-B9E5-4433-87C0-68B6B72699C7 (Microsoft basic data)
Partition unique GUID: 6A1F9E2B-33C4-4E4B-8C56-7F0D2E1C9A10
First sector: 239616 (at 117.0 MiB)
Last sector: 61863935 (at 29.5 GiB)
Partition size: 61624320 sectors (29.4 GiB)
Attribute flags: 0000000000000000
Partition name: 'Basic data partition'
`

func TestLocate(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	value, err := Locate(sgdiskPrint, "Sector size", 3)
	require.NoError(err)
	assert.Equal("512", value)

	value, err = Locate(sgdiskInfo, "First sector", 2)
	require.NoError(err)
	assert.Equal("239616", value)

	value, err = Locate(sgdiskInfo, "Last sector", 2)
	require.NoError(err)
	assert.Equal("61863935", value)

	value, err = Locate(sgdiskInfo, "Partition size", 2)
	require.NoError(err)
	assert.Equal("61624320", value)
}

func TestLocatePartitionRow(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	value, err := Locate(" 3  1048576  2097151  524288   8300  Basic data", "3", 2)
	require.NoError(err)
	assert.Equal("2097151", value)

	// "3" labels row 3, not row 30
	value, err = Locate(sgdiskPrint, "3", 1)
	require.NoError(err)
	assert.Equal("239616", value)

	value, err = Locate(sgdiskPrint, "30", 2)
	require.NoError(err)
	assert.Equal("62912511", value)
}

func TestLocateIsNotSubstringMatch(t *testing.T) {
	assert := assert.New(t)

	// "size" appears inside several lines but labels none of them
	_, err := Locate(sgdiskPrint, "size", 1)
	assert.ErrorIs(err, ErrRowNotFound)

	// label must end at a word boundary
	_, err = Locate("Sector sizes: 512\n", "Sector size", 2)
	assert.ErrorIs(err, ErrRowNotFound)
}

func TestLocateErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := Locate(sgdiskInfo, "Sector size", 3)
	assert.ErrorIs(err, ErrRowNotFound)

	_, err = Locate("", "First sector", 2)
	assert.ErrorIs(err, ErrRowNotFound)

	_, err = Locate(sgdiskInfo, "First sector", 6)
	assert.ErrorIs(err, ErrColumnOutOfRange)
	assert.NotErrorIs(err, ErrRowNotFound)

	_, err = Locate(sgdiskInfo, "First sector", -1)
	assert.ErrorIs(err, ErrColumnOutOfRange)

	_, err = Locate(sgdiskInfo, "", 0)
	assert.ErrorIs(err, ErrRowNotFound)
}

func TestLocateFirstMatchWins(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	value, err := Locate("Last sector: 10\r\nLast sector: 20\r\n", "Last sector", 2)
	require.NoError(err)
	assert.Equal("10", value)
}

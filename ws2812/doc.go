// Package ws2812 drives WS2812/WS2812B and SK6812-RGBW LED strips from a
// plain SPI peripheral.
//
// The strips use a self-clocked one-wire protocol; no SPI clock reaches
// them. Instead the clock rate is fixed so that 3 consecutive MOSI bits span
// one protocol bit-period, and every data bit is expanded to the 3-bit
// pattern 110 (logical 1) or 100 (logical 0). A 256-entry table maps each
// channel byte to its 3-byte expansion so the per-frame hot path is a table
// copy plus a single bus transfer.
//
// For RGBW strips with a dedicated white channel, construct the driver with
// hasWhite set; see the SK6812 datasheets at
// https://github.com/cpldcpu/light_ws2812/tree/master/Datasheets
package ws2812

// Package rdata converts resource record data between its zone file
// presentation form and the wire format stored alongside each record.
// Name-valued fields resolve relative names against the zone origin and
// are always written uncompressed, so the stored bytes are position
// independent.
package rdata

import (
	"fmt"

	"github.com/nameplane/dnswire/internal/dns/domain"
)

// Encode encodes a record value based on its type, to its binary
// representation. Relative names inside the value resolve against
// origin.
func Encode(rrType domain.RRType, data string, origin *domain.Name) ([]byte, error) {
	switch rrType {
	case domain.RRTypeA: // 1
		return encodeAData(data)
	case domain.RRTypeNS: // 2
		return encodeNameData(data, origin)
	case domain.RRTypeCNAME: // 5
		return encodeNameData(data, origin)
	case domain.RRTypeSOA: // 6
		return encodeSOAData(data, origin)
	case domain.RRTypePTR: // 12
		return encodeNameData(data, origin)
	case domain.RRTypeMX: // 15
		return encodeMXData(data, origin)
	case domain.RRTypeTXT: // 16
		return encodeTXTData(data)
	case domain.RRTypeAAAA: // 28
		return encodeAAAAData(data)
	case domain.RRTypeSRV: // 33
		return encodeSRVData(data, origin)
	case domain.RRTypeOPT: // 41
		return encoderNotImplemented(domain.RRTypeOPT)
	case domain.RRTypeSVCB: // 64
		return encoderNotImplemented(domain.RRTypeSVCB)
	case domain.RRTypeHTTPS: // 65
		return encoderNotImplemented(domain.RRTypeHTTPS)
	case domain.RRTypeCAA: // 257
		return encodeCAAData(data)
	default:
		return []byte(data), nil
	}
}

// Decode decodes a record value based on its type, from its binary
// representation back into presentation form. Names come out fully
// qualified, so Decode output re-encodes without an origin.
func Decode(rrType domain.RRType, data []byte) (string, error) {
	switch rrType {
	case domain.RRTypeA: // 1
		return decodeAData(data)
	case domain.RRTypeNS: // 2
		return decodeNameData(data)
	case domain.RRTypeCNAME: // 5
		return decodeNameData(data)
	case domain.RRTypeSOA: // 6
		return decodeSOAData(data)
	case domain.RRTypePTR: // 12
		return decodeNameData(data)
	case domain.RRTypeMX: // 15
		return decodeMXData(data)
	case domain.RRTypeTXT: // 16
		return decodeTXTData(data)
	case domain.RRTypeAAAA: // 28
		return decodeAAAAData(data)
	case domain.RRTypeSRV: // 33
		return decodeSRVData(data)
	case domain.RRTypeOPT: // 41
		return decoderNotImplemented(domain.RRTypeOPT)
	case domain.RRTypeSVCB: // 64
		return decoderNotImplemented(domain.RRTypeSVCB)
	case domain.RRTypeHTTPS: // 65
		return decoderNotImplemented(domain.RRTypeHTTPS)
	case domain.RRTypeCAA: // 257
		return decodeCAAData(data)
	default:
		return string(data), nil
	}
}

func encoderNotImplemented(t domain.RRType) ([]byte, error) {
	return nil, fmt.Errorf("%s record encoding not implemented yet", t)
}

func decoderNotImplemented(t domain.RRType) (string, error) {
	return "", fmt.Errorf("%s record decoding not implemented yet", t)
}

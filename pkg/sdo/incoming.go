package sdo

// processIncoming dispatches a received SDO frame to the rx handler for the
// server's current state, per the CiA301 command specifier (the top 3 bits
// of the first byte): 0x20 initiate download, 0x40 initiate upload, 0xA0
// block upload, 0xC0 block download, 0x80 abort.
func (s *SDOServer) processIncoming(rx SDOMessage) error {
	ccs := rx.raw[0] & 0xE0

	if ccs == 0x80 {
		s.state = stateIdle
		return nil
	}

	if s.state == stateIdle {
		switch ccs {
		case 0x20:
			s.state = stateDownloadInitiateReq
		case 0x40:
			s.state = stateUploadInitiateReq
		case 0xA0:
			s.state = stateUploadBlkInitiateReq
		case 0xC0:
			s.state = stateDownloadBlkInitiateReq
		default:
			return AbortCmd
		}
		if err := s.updateStreamer(rx); err != nil {
			return err
		}
		switch ccs {
		case 0x20:
			return s.rxDownloadInitiate(rx)
		case 0x40:
			return s.rxUploadInitiate(rx)
		case 0xA0:
			return s.rxUploadBlockInitiate(rx)
		case 0xC0:
			return s.rxDownloadBlockInitiate(rx)
		}
	}

	switch s.state {
	case stateDownloadSegmentReq:
		return s.rxDownloadSegment(rx)

	case stateUploadSegmentReq:
		return s.rxUploadSegment(rx)

	case stateDownloadBlkSubblockReq:
		return s.rxDownloadBlockSubBlock(rx)

	case stateDownloadBlkEndReq:
		return s.rxDownloadBlockEnd(rx)

	case stateUploadBlkInitiateReq2:
		// client confirms it is ready to receive the first sub-block
		if rx.raw[0] != 0xA3 {
			return AbortCmd
		}
		s.blockSequenceNb = 0
		s.state = stateUploadBlkSubblockSreq
		return nil

	case stateUploadBlkSubblockCrsp:
		return s.rxUploadSubBlock(rx)

	case stateUploadBlkEndCrsp:
		// client's final ack that it received the block upload end response
		if rx.raw[0] != 0xA1 {
			return AbortCmd
		}
		s.state = stateIdle
		return nil
	}

	return AbortCmd
}
